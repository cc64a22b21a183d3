package mimosa26interp

import "errors"

// ErrUnsupportedTriggerFormat is returned by New when Config.TriggerDataFormat
// names a TLU trigger-word encoding this interpreter does not understand.
// Trigger data format 2 (15-bit timestamp + 16-bit trigger number) is the
// only format supported, since trigger timestamp reconstruction requires
// it.
var ErrUnsupportedTriggerFormat = errors.New("mimosa26interp: unsupported trigger data format")
