package cmd

// Record is the fixed-layout user record pstructctl's CLI exercises the
// engine with. A production caller instantiates persist.Struct[T] over
// its own T; pstructctl picks one concrete record shape so `save`/`load`
// have something to decode JSON into.
//
// Label is a fixed-size byte array (not a string) because
// encoding/binary, which pkg/frame uses to size and marshal T, requires
// a fixed-size type — see the doc comment on payloadByteSize in
// pkg/frame.
type Record struct {
	Sequence uint32
	Flags    uint32
	Label    [16]byte
}
