package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		{name: "string library", code: `x = string.upper("goss")`},
		{name: "table library", code: `t = {1, 2}; table.insert(t, 3); n = table.concat(t, ",")`},
		{name: "math library", code: `x = math.floor(3.7)`},
		{name: "basic functions", code: `x = type("a"); y = tostring(1); z = tonumber("2")`},
		{name: "pairs", code: `for k, v in pairs({a = 1}) do end`},

		{name: "os.execute blocked", code: `os.execute("id")`, wantErr: true, errMsg: "attempt to index"},
		{name: "os.getenv blocked", code: `x = os.getenv("HOME")`, wantErr: true, errMsg: "attempt to index"},
		{name: "io.open blocked", code: `f = io.open("/etc/shadow")`, wantErr: true, errMsg: "attempt to index"},
		{name: "require blocked", code: `m = require("socket")`, wantErr: true, errMsg: "attempt to call"},
		{name: "package blocked", code: `p = package.path`, wantErr: true, errMsg: "attempt to index"},
		{name: "dofile blocked", code: `dofile("/tmp/x.lua")`, wantErr: true, errMsg: "attempt to call"},
		{name: "loadstring blocked", code: `f = loadstring("return 1")`, wantErr: true, errMsg: "attempt to call"},
		{name: "debug blocked", code: `debug.getinfo(1)`, wantErr: true, errMsg: "attempt to index"},
		{name: "setmetatable blocked", code: `setmetatable({}, {})`, wantErr: true, errMsg: "attempt to call"},
		{name: "rawset blocked", code: `rawset({}, "a", 1)`, wantErr: true, errMsg: "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DoString(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}

			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.errMsg)
			}
		})
	}
}

func TestNewSandboxedVM(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "require", "load"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("global %s = %v, want nil", name, v.Type())
		}
	}

	if v := L.GetGlobal("string"); v.Type() != lua.LTTable {
		t.Errorf("global string = %v, want table", v.Type())
	}
}

func TestSandboxRecursionLimit(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	err := L.DoString(`local function f(n) return f(n + 1) + 1 end; f(1)`)
	if err == nil {
		t.Fatal("unbounded recursion did not fail")
	}
}
