package wasmext

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	errs "github.com/wippyai/dtype-runtime/errors"
)

// Export names making up the wasm extension ABI. The name set is the
// module's contract: a missing export fails the load, not the first call.
const (
	expABIVersion = "dtype_abi_version"
	expCount      = "dtype_count"
	expKind       = "dtype_kind"
	expSize       = "dtype_size"
	expNamePtr    = "dtype_name_ptr"
	expNameLen    = "dtype_name_len"
	expCommon     = "common_dtype"
)

var requiredExports = []struct {
	name string
	sig  string
}{
	{expABIVersion, "() -> i32"},
	{expCount, "() -> i32"},
	{expKind, "(i32) -> i32"},
	{expSize, "(i32) -> i32"},
	{expNamePtr, "(i32) -> i32"},
	{expNameLen, "(i32) -> i32"},
	{expCommon, "(i32, i32) -> i32"},
}

// guest abstracts the instantiated extension module. The wazero-backed
// implementation is the only one outside tests.
type guest interface {
	call(ctx context.Context, name string, args ...uint64) ([]uint64, error)
	readString(ptr, size uint32) (string, bool)
	missing() []string
	close(ctx context.Context) error
}

// wazeroGuest runs the extension inside a wazero runtime.
type wazeroGuest struct {
	runtime wazero.Runtime
	module  api.Module
}

func newWazeroGuest(ctx context.Context, wasmBytes []byte) (*wazeroGuest, error) {
	runtime := wazero.NewRuntime(ctx)

	module, err := runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errs.Load("instantiate extension module", err)
	}

	return &wazeroGuest{runtime: runtime, module: module}, nil
}

func (g *wazeroGuest) call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := g.module.ExportedFunction(name)
	if fn == nil {
		return nil, errs.NewMissingExportsError([]string{name})
	}
	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errs.Wrap(errs.PhaseLoad, errs.KindInvalidData, err, "call "+name)
	}
	return results, nil
}

func (g *wazeroGuest) readString(ptr, size uint32) (string, bool) {
	mem := g.module.Memory()
	if mem == nil {
		return "", false
	}
	data, ok := mem.Read(ptr, size)
	if !ok {
		return "", false
	}
	return string(data), true
}

func (g *wazeroGuest) missing() []string {
	var out []string
	for _, exp := range requiredExports {
		if g.module.ExportedFunction(exp.name) == nil {
			out = append(out, exp.name+":"+exp.sig)
		}
	}
	return out
}

func (g *wazeroGuest) close(ctx context.Context) error {
	return g.runtime.Close(ctx)
}
