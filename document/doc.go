// Package document implements the ptcloud container: a typed node tree stored as
// metadata plus block streams of point records.
//
// A document is written in two phases. First the tree is declared and a
// CompressedVectorNode obtains a BlockWriter bound to caller-owned SourceBuffers; the
// writer appends records as packets right after the file header. Once the BlockWriter
// is closed, the tree becomes mutable again, so summary metadata computed while
// streaming can be attached. ImageFile.Close then serializes the tree, writes it after
// the packets and patches the file header.
//
//	f, err := document.Create("scan.ptc")
//	if err != nil {
//	    return err
//	}
//	defer f.Abort() // no-op after a successful Close
//
//	proto := document.NewStructureNode(f)
//	x, _ := document.NewFloatNode(f, 0, format.PrecisionSingle)
//	_ = proto.Set("cartesianX", x)
//
//	points, err := document.NewCompressedVectorNode(f, proto)
//	...
//	_ = f.Root().Set("points", points)
//
//	xs := make([]float64, 1000)
//	bw, err := points.Writer([]document.SourceBuffer{document.NewFloat64Buffer("cartesianX", xs)})
//	...
//	err = bw.Write(n) // writes xs[:n]
//	err = bw.Close()
//	err = f.Close()
//
// Nodes, ImageFile and BlockWriter are not safe for concurrent use.
package document
