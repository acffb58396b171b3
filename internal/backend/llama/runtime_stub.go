//go:build !llama

package llama

// Built reports whether this binary links llama.cpp.
const Built = false

func open(string, Options) (completer, error) {
	return nil, ErrNotBuilt
}
