package document

import (
	"fmt"
	"strings"

	"github.com/arloliu/ptcloud/errs"
	"github.com/google/uuid"
)

// DefaultGUID identifies documents written without WithGUID.
const DefaultGUID = "{8DE5883C-36D0-423E-8A21-A476DA14AFDC}"

// NewGUID returns a random GUID in braced upper-case form.
func NewGUID() string {
	return formatGUID(uuid.New())
}

// NormalizeGUID parses guid and returns it in braced upper-case form.
func NormalizeGUID(guid string) (string, error) {
	id, err := uuid.Parse(guid)
	if err != nil {
		return "", fmt.Errorf("%w: guid %q: %w", errs.ErrInvalidOption, guid, err)
	}

	return formatGUID(id), nil
}

func formatGUID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}
