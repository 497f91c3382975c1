package common

// WipeByteArray overwrites b with zeros. Used to drop passwords read from the
// terminal as soon as they are sent. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
