package buffer

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithLineEnding sets the serialization line-ending convention. Content
// is stored LF-normalized regardless; the convention applies on
// Serialize.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) { b.lineEnding = le }
}

// DetectLineEnding inspects raw text and returns the dominant convention.
func DetectLineEnding(s string) LineEnding {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			return LineEndingLF
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return LineEndingCRLF
			}
			return LineEndingCR
		}
	}
	return LineEndingLF
}
