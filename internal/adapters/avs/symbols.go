package avs

import (
	"fmt"
	"runtime"
)

// Func names a host entry point independently of its exported symbol.
type Func string

// Host entry points used by the hook.
const (
	FuncDestroy    Func = "property_destroy"
	FuncSetFlag    Func = "property_set_flag"
	FuncClearError Func = "property_clear_error"
	FuncQuerySize  Func = "property_query_size"
	FuncSearch     Func = "property_search"
	FuncNodeName   Func = "property_node_name"
	FuncNodeRead   Func = "property_node_read"
	FuncNodeRefer  Func = "property_node_refer"
	FuncMemWrite   Func = "property_mem_write"
)

// SymbolTable maps entry points to the obfuscated exports of one host build.
type SymbolTable struct {
	Library string
	Symbols map[Func]string
}

// Symbol returns the exported name for f.
func (t SymbolTable) Symbol(f Func) (string, error) {
	s, ok := t.Symbols[f]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrUnresolved, f, t.Library)
	}
	return s, nil
}

var symbolTables = map[string]SymbolTable{
	"386": {
		Library: "libavs-win32.dll",
		Symbols: map[Func]string{
			FuncDestroy:    "XCd229cc00013c",
			FuncSetFlag:    "XCd229cc000035",
			FuncClearError: "XCd229cc00014b",
			FuncQuerySize:  "XCd229cc000032",
			FuncSearch:     "XCd229cc00012e",
			FuncNodeName:   "XCd229cc000049",
			FuncNodeRead:   "XCd229cc0000f3",
			FuncNodeRefer:  "XCd229cc000009",
			FuncMemWrite:   "XCd229cc000033",
		},
	},
	"amd64": {
		Library: "libavs-win64.dll",
		Symbols: map[Func]string{
			FuncDestroy:    "XCnbrep7000091",
			FuncSetFlag:    "XCnbrep700009a",
			FuncClearError: "XCnbrep700009d",
			FuncQuerySize:  "XCnbrep700009f",
			FuncSearch:     "XCnbrep70000a1",
			FuncNodeName:   "XCnbrep70000a7",
			FuncNodeRead:   "XCnbrep70000ab",
			FuncNodeRefer:  "XCnbrep70000af",
			FuncMemWrite:   "XCnbrep70000b8",
		},
	},
}

// SymbolsFor returns the symbol table for a GOARCH value.
func SymbolsFor(arch string) (SymbolTable, error) {
	t, ok := symbolTables[arch]
	if !ok {
		return SymbolTable{}, fmt.Errorf("%w: %s", ErrUnsupportedArch, arch)
	}
	return t, nil
}

// CurrentSymbols returns the table for the running architecture.
func CurrentSymbols() (SymbolTable, error) {
	return SymbolsFor(runtime.GOARCH)
}
