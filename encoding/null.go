package encoding

import "github.com/nicholassherlock/blackbox-log/reader"

// ReadNull consumes nothing and always returns 0. Used for fields the
// firmware never writes to the log.
func ReadNull(_ *reader.Reader) (int32, error) {
	return 0, nil
}
