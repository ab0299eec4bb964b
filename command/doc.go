// Package command defines one record type per captured API call.
//
// A record is the envelope (sequence number and thread id) followed by the
// call's arguments in declaration order and, for calls that return one, the
// HRESULT. Interface arguments are keys, created objects are ObjectOut
// values, and GPU addresses and descriptor handles carry the key/offset or
// heap/index they were resolved to at capture time.
//
// The call id is not part of the record: the container stores it next to
// the payload and passes it back to Decode.
//
//	buf, err := command.Encode(cmd, reg)
//	cmd, err := command.Decode(command.CallSetName, buf)
//
// Decoded commands alias their input buffer. Detach produces a copy that
// owns its storage.
package command
