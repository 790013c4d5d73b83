// Package errs defines the sentinel errors shared by the ptcloud packages.
//
// Call sites wrap these values with additional context using fmt.Errorf and the %w verb,
// so callers should always compare with errors.Is:
//
//	if errors.Is(err, errs.ErrFlushFailed) {
//	    // the session is failed, Close will discard the partial file
//	}
package errs

import "errors"

// Image file and node tree errors.
var (
	// ErrImageFileClosed is returned when an image file is used after Close or Abort.
	ErrImageFileClosed = errors.New("image file is closed")
	// ErrPathDefined is returned when a child name is set twice on a structure node.
	ErrPathDefined = errors.New("path already defined")
	// ErrPathUndefined is returned when a child name does not exist.
	ErrPathUndefined = errors.New("path undefined")
	// ErrAlreadyHasParent is returned when a node is attached to a second parent.
	ErrAlreadyHasParent = errors.New("node already has a parent")
	// ErrDifferentImageFile is returned when nodes from two image files are mixed.
	ErrDifferentImageFile = errors.New("node belongs to a different image file")
	// ErrBadPrototype is returned when a compressed vector prototype is not usable.
	ErrBadPrototype = errors.New("bad prototype")
	// ErrBadNodeValue is returned when a node is constructed with an invalid value.
	ErrBadNodeValue = errors.New("bad node value")
	// ErrWriterOpen is returned when the tree is mutated or the file closed while a
	// block writer is still open.
	ErrWriterOpen = errors.New("block writer is open")
)

// Block writer errors.
var (
	// ErrWriterClosed is returned when a closed block writer is used.
	ErrWriterClosed = errors.New("block writer is closed")
	// ErrWriterAlreadyCreated is returned when a second writer is requested for a compressed vector.
	ErrWriterAlreadyCreated = errors.New("block writer already created")
	// ErrBufferBinding is returned when source buffers do not match the prototype.
	ErrBufferBinding = errors.New("source buffers do not match prototype")
	// ErrBufferSizeMismatch is returned when bound source buffers have different capacities.
	ErrBufferSizeMismatch = errors.New("source buffer capacities differ")
	// ErrBadRecordCount is returned when a write asks for more records than the buffers hold.
	ErrBadRecordCount = errors.New("bad record count")
	// ErrValueOutOfBounds is returned when an integer value falls outside the declared field bounds.
	ErrValueOutOfBounds = errors.New("value out of bounds")
)

// Section and encoding errors.
var (
	// ErrInvalidHeaderSize is returned when a header byte slice has the wrong size.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidMagicNumber is returned when a header does not carry the expected magic.
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	// ErrInvalidHeaderFlags is returned when header flags hold unknown values.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	// ErrInvalidFieldCount is returned when a packet declares an unusable field count.
	ErrInvalidFieldCount = errors.New("invalid field count")
	// ErrChecksumMismatch is returned when a payload checksum does not match its content.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Writer session errors.
var (
	// ErrWriterAlreadyOpen is returned by Open on a session that was already opened.
	ErrWriterAlreadyOpen = errors.New("writer already opened")
	// ErrBufferFull is returned when appending to a field buffer set at capacity.
	ErrBufferFull = errors.New("field buffer is full")
	// ErrFlushFailed marks a failed block write. The session stays failed afterwards.
	ErrFlushFailed = errors.New("flush failed")
	// ErrInvalidBufferSize is returned for a non-positive buffer capacity.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
	// ErrInvalidOption is returned when a configuration option is rejected.
	ErrInvalidOption = errors.New("invalid option")
)

// Input errors.
var (
	// ErrMalformedInput is returned when a point text line cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")
)
