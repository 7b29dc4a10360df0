package bytecode

// DeserializationError reports a malformed bytecode file: a bad magic
// number, an unsupported version, or a section that runs past the end of
// the input. The message text matches the on-disk contract exactly, since
// host tooling may match against it.
type DeserializationError struct {
	Message string
}

func (e DeserializationError) Error() string {
	return e.Message
}
