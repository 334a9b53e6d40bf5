package credential

// secret copies plain into a fresh slice so it can be zeroed after use.
func secret(plain string) []byte {
	return []byte(plain)
}

// wipe overwrites b with zeros. A nil slice is ignored.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
