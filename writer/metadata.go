package writer

import (
	"fmt"

	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/format"
)

// writeIdentification sets the document-level identification fields on root.
func writeIdentification(f *document.ImageFile) error {
	major, minor, library := document.Versions()
	root := f.Root()

	created := document.NewStructureNode(f)
	dateTime, err := document.NewDoubleNode(f, 0)
	if err != nil {
		return err
	}
	atomic, err := document.NewBoundedIntegerNode(f, 0, 0, 1)
	if err != nil {
		return err
	}
	if err := setAll(created,
		child{"dateTimeValue", dateTime},
		child{"isAtomicClockReferenced", atomic},
	); err != nil {
		return err
	}

	return setAll(root,
		child{"formatName", document.NewStringNode(f, document.FormatName)},
		child{"guid", document.NewStringNode(f, f.GUID())},
		child{"versionMajor", document.NewIntegerNode(f, major)},
		child{"versionMinor", document.NewIntegerNode(f, minor)},
		child{"libraryVersion", document.NewStringNode(f, library)},
		child{"coordinateMetadata", document.NewStringNode(f, "")},
		child{"creationDateTime", created},
	)
}

// declareScan adds data3D with one scan holding the point prototype and returns the
// scan and its compressed vector.
func declareScan(f *document.ImageFile, cfg *config) (*document.StructureNode, *document.CompressedVectorNode, error) {
	proto := document.NewStructureNode(f)
	for _, name := range []string{FieldCartesianX, FieldCartesianY, FieldCartesianZ} {
		n, err := document.NewFloatNode(f, 0, format.PrecisionSingle)
		if err != nil {
			return nil, nil, err
		}
		if err := proto.Set(name, n); err != nil {
			return nil, nil, err
		}
	}
	for _, name := range []string{FieldColorRed, FieldColorGreen, FieldColorBlue} {
		n, err := document.NewBoundedIntegerNode(f, 0, 0, 255)
		if err != nil {
			return nil, nil, err
		}
		if err := proto.Set(name, n); err != nil {
			return nil, nil, err
		}
	}
	intensity, err := document.NewFloatNode(f, 0, format.PrecisionSingle)
	if err != nil {
		return nil, nil, err
	}
	timeStamp, err := document.NewDoubleNode(f, 0)
	if err != nil {
		return nil, nil, err
	}
	if err := setAll(proto, child{FieldIntensity, intensity}, child{FieldTimeStamp, timeStamp}); err != nil {
		return nil, nil, err
	}

	codecs := []document.Codec{{Compression: cfg.compression}}
	if cfg.timeEncoding == format.TypeGorilla {
		codecs = append(codecs, document.Codec{
			Fields:      []string{FieldTimeStamp},
			Encoding:    format.TypeGorilla,
			Compression: cfg.compression,
		})
	}
	points, err := document.NewCompressedVectorNode(f, proto, codecs...)
	if err != nil {
		return nil, nil, err
	}

	scan := document.NewStructureNode(f)
	if err := setAll(scan,
		child{"guid", document.NewStringNode(f, DefaultScanGUID)},
		child{"name", document.NewStringNode(f, cfg.scanName)},
		child{"description", document.NewStringNode(f, cfg.description)},
		child{"points", points},
	); err != nil {
		return nil, nil, err
	}

	data3D := document.NewVectorNode(f, true)
	if err := data3D.Append(scan); err != nil {
		return nil, nil, err
	}
	if err := f.Root().Set("data3D", data3D); err != nil {
		return nil, nil, err
	}

	return scan, points, nil
}

// attachSummary writes the pose, the accumulated ranges and the color limits onto
// scan. The block writer must be closed.
func attachSummary(f *document.ImageFile, scan *document.StructureNode, cfg *config, r Ranges) error {
	translation := document.NewStructureNode(f)
	if err := setDoubles(f, translation,
		double{"x", cfg.offset.X},
		double{"y", cfg.offset.Y},
		double{"z", cfg.offset.Z},
	); err != nil {
		return err
	}
	pose := document.NewStructureNode(f)
	if err := pose.Set("translation", translation); err != nil {
		return err
	}
	if err := scan.Set("pose", pose); err != nil {
		return err
	}

	limits := []struct {
		name   string
		prefix []string
		ranges []Range
	}{
		{"cartesianBounds", []string{"x", "y", "z"}, []Range{r.X, r.Y, r.Z}},
		{"intensityLimits", []string{"intensity"}, []Range{r.Intensity}},
		{"timeStampLimits", []string{"timeStamp"}, []Range{r.Time}},
	}
	for _, l := range limits {
		var values []double
		for i, rg := range l.ranges {
			lo, hi := rg.Min, rg.Max
			if rg.IsEmpty() {
				if cfg.emptyBounds == EmptyBoundsOmit {
					continue
				}
				lo, hi = 0, 0
			}
			values = append(values, double{l.prefix[i] + "Minimum", lo}, double{l.prefix[i] + "Maximum", hi})
		}
		if len(values) == 0 {
			continue
		}

		node := document.NewStructureNode(f)
		if err := setDoubles(f, node, values...); err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
		if err := scan.Set(l.name, node); err != nil {
			return err
		}
	}

	colors := document.NewStructureNode(f)
	for _, c := range []string{"colorRed", "colorGreen", "colorBlue"} {
		if err := setAll(colors,
			child{c + "Minimum", document.NewIntegerNode(f, 0)},
			child{c + "Maximum", document.NewIntegerNode(f, 255)},
		); err != nil {
			return err
		}
	}

	return scan.Set("colorLimits", colors)
}

type child struct {
	name string
	node document.Node
}

func setAll(s *document.StructureNode, children ...child) error {
	for _, c := range children {
		if err := s.Set(c.name, c.node); err != nil {
			return err
		}
	}

	return nil
}

type double struct {
	name  string
	value float64
}

func setDoubles(f *document.ImageFile, s *document.StructureNode, values ...double) error {
	for _, v := range values {
		n, err := document.NewDoubleNode(f, v.value)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		if err := s.Set(v.name, n); err != nil {
			return err
		}
	}

	return nil
}
