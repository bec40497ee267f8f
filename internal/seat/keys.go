package seat

// KeySet is the set of evdev key codes currently held down. Codes keep the
// order they were pressed in.
type KeySet struct {
	codes []uint32
}

// Press adds code. It reports false if the code was already held.
func (k *KeySet) Press(code uint32) bool {
	if k.Contains(code) {
		return false
	}
	k.codes = append(k.codes, code)
	return true
}

// Release removes code. It reports false if the code was not held.
func (k *KeySet) Release(code uint32) bool {
	for i, c := range k.codes {
		if c == code {
			k.codes = append(k.codes[:i], k.codes[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether code is held.
func (k *KeySet) Contains(code uint32) bool {
	for _, c := range k.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Len returns the number of held keys.
func (k *KeySet) Len() int {
	return len(k.codes)
}

// Codes returns a copy of the held codes in press order.
func (k *KeySet) Codes() []uint32 {
	out := make([]uint32, len(k.codes))
	copy(out, k.codes)
	return out
}
