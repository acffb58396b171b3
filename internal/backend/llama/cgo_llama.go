//go:build llama

package llama

// Link against libllama from ./bin and find it next to the binary at run
// time ($ORIGIN rpath).
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../../bin -lllama
*/
import "C"
