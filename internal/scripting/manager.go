package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalScope is the key of the shared VM loaded by LoadGlobal. CallHook
// falls back to it when a scope has no VM of its own.
const GlobalScope = "__global__"

// UnitInfo is a snapshot of a unit handed to Lua.
type UnitInfo struct {
	ID        int
	Template  string
	Owner     int
	Health    int
	MaxHealth int
	Mana      int
	X, Y      int
	Modifiers []string
}

// vm is one sandboxed LState. current is the scope of the hook running on
// it; engine.* functions read it to route callbacks.
type vm struct {
	mu      sync.Mutex
	L       *lua.LState
	cancel  context.CancelFunc
	current string
	limit   int
	closed  bool
}

// Manager owns one sandboxed VM per scope and dispatches hooks to them.
//
// Manager is safe for concurrent use. Calls into the same VM are serialised
// by that VM's mutex; distinct VMs run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger

	// Set before the first hook runs. nil makes the engine.unit functions
	// return nil or an empty list.
	GetUnit func(scope string, id int) *UnitInfo
	Enemies func(scope string, id int) []int
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{vms: make(map[string]*vm), logger: logger}
}

// LoadScope creates a VM for scope, registers the engine.* modules, then
// runs every *.lua file in scriptDir in lexicographic order. A VM already
// loaded under scope is replaced.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal loads the shared fallback VM.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L, cancel := NewSandboxedState(instLimit)
	v := &vm{L: L, cancel: cancel, current: key, limit: instLimit}
	m.registerModules(v)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		v.close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			v.close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: scope loaded", zap.String("scope", key), zap.Int("files", len(luaFiles)))
	return nil
}

func (v *vm) close() {
	v.closed = true
	v.cancel()
	v.L.Close()
}

// CallHook calls the named Lua global in scope's VM, or in the global VM
// when scope has none. Every call runs under the VM's full opcode budget.
// It returns (LNil, nil) when no VM exists or the hook is undefined. Lua runtime errors, including an exhausted instruction
// budget, are logged at Warn and reported as LNil.
//
// Postcondition: returns the hook's first return value, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for scope", zap.String("scope", scope), zap.String("hook", hook))
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return lua.LNil, nil
	}
	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	v.current = scope
	ctx, cancel := newCountingContext(v.limit)
	defer cancel()
	v.L.SetContext(ctx)
	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Unload closes scope's VM if one is loaded.
func (m *Manager) Unload(scope string) {
	m.mu.Lock()
	v, ok := m.vms[scope]
	delete(m.vms, scope)
	m.mu.Unlock()
	if ok {
		v.mu.Lock()
		v.close()
		v.mu.Unlock()
	}
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.close()
		v.mu.Unlock()
	}
}
