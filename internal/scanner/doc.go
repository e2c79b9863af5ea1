// Package scanner runs the QR decode loop for the hunt client.
//
// A Decoder pulls frames from a FrameSource at a fixed interval, tries to
// decode a QR code in each and pushes every attempt to a channel as a
// Result. Failed attempts are transient (ErrNoCode) and decoding keeps going
// until Stop is called. Stop is synchronous: when it returns the loop has
// exited and the source has been closed.
//
// Decoding and encoding are delegated to gozxing.
package scanner
