package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// cli errors
const (
	ErrorCreateFile  = Error("could not create the file")
	ErrorEncodeFile  = Error("could not encode to file")
	ErrorStoreBroken = Error("store is corrupt and no usable backup was found")
)

// config errors
const (
	ErrInvalidDuration = Error("invalid duration")
	ErrInvalidSize     = Error("invalid size")
)
