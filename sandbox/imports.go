// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"errors"

	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/ava-labs/wasmsoak/hostabi"
)

var (
	typeI64 = wasmtime.NewValType(wasmtime.KindI64)

	noResult = []wasmtime.Val{}
)

type hostFunction struct {
	params  []*wasmtime.ValType
	results []*wasmtime.ValType
	call    func(*wasmtime.Caller, []wasmtime.Val) ([]wasmtime.Val, error)
}

// importModule binds the register ABI for one call to [host]. The first host
// error is kept since wasmtime only carries the trap message back to the
// caller.
type importModule struct {
	host hostabi.Host
	err  error
}

func newImportModule(host hostabi.Host) *importModule {
	return &importModule{host: host}
}

func (i *importModule) functions() map[string]hostFunction {
	return map[string]hostFunction{
		hostabi.InputFnName: {
			params: []*wasmtime.ValType{typeI64},
			call: func(_ *wasmtime.Caller, vals []wasmtime.Val) ([]wasmtime.Val, error) {
				i.host.Input(uint64(vals[0].I64()))
				return noResult, nil
			},
		},
		hostabi.ReadRegisterFnName: {
			params: []*wasmtime.ValType{typeI64, typeI64},
			call: func(caller *wasmtime.Caller, vals []wasmtime.Val) ([]wasmtime.Val, error) {
				mem, err := newCallerMemory(caller)
				if err != nil {
					return nil, err
				}
				data := i.host.ReadRegister(uint64(vals[0].I64()))
				return noResult, mem.Write(uint64(vals[1].I64()), data)
			},
		},
		hostabi.RegisterLenFnName: {
			params:  []*wasmtime.ValType{typeI64},
			results: []*wasmtime.ValType{typeI64},
			call: func(_ *wasmtime.Caller, vals []wasmtime.Val) ([]wasmtime.Val, error) {
				n := i.host.RegisterLen(uint64(vals[0].I64()))
				return []wasmtime.Val{wasmtime.ValI64(int64(n))}, nil
			},
		},
		hostabi.LogUTF8FnName: {
			params: []*wasmtime.ValType{typeI64, typeI64},
			call: func(caller *wasmtime.Caller, vals []wasmtime.Val) ([]wasmtime.Val, error) {
				mem, err := newCallerMemory(caller)
				if err != nil {
					return nil, err
				}
				msg, err := mem.Read(uint64(vals[1].I64()), uint64(vals[0].I64()))
				if err != nil {
					return nil, err
				}
				return noResult, i.host.LogUTF8(msg)
			},
		},
	}
}

func (i *importModule) createLinker(engine *wasmtime.Engine) (*wasmtime.Linker, error) {
	linker := wasmtime.NewLinker(engine)
	for name, fn := range i.functions() {
		fnType := wasmtime.NewFuncType(fn.params, fn.results)
		if err := linker.FuncNew(hostabi.ModuleName, name, fnType, i.convert(fn)); err != nil {
			return nil, err
		}
	}
	return linker, nil
}

func (i *importModule) convert(fn hostFunction) func(*wasmtime.Caller, []wasmtime.Val) ([]wasmtime.Val, *wasmtime.Trap) {
	return func(caller *wasmtime.Caller, vals []wasmtime.Val) ([]wasmtime.Val, *wasmtime.Trap) {
		results, err := fn.call(caller, vals)
		if err != nil {
			if i.err == nil {
				i.err = err
			}
			return nil, convertToTrap(err)
		}
		return results, nil
	}
}

func convertToTrap(err error) *wasmtime.Trap {
	var t *wasmtime.Trap
	if errors.As(err, &t) {
		return t
	}
	return wasmtime.NewTrap(err.Error())
}
