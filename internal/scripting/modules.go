package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine global into v:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.unit.get(id)          -> table or nil
//	engine.unit.enemies(id)      -> array of unit ids
//	engine.unit.enemy_count(id)  -> number
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(v))
	L.SetField(engine, "unit", m.unitModule(v))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(v *vm) *lua.LTable {
	L := v.L
	tbl := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, log := range levels {
		log := log
		L.SetField(tbl, name, L.NewFunction(func(L *lua.LState) int {
			log("lua: "+L.CheckString(1), zap.String("scope", v.current))
			return 0
		}))
	}
	return tbl
}

func (m *Manager) unitModule(v *vm) *lua.LTable {
	L := v.L
	tbl := L.NewTable()
	L.SetField(tbl, "get", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		if m.GetUnit == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetUnit(v.current, id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(UnitToTable(L, info))
		return 1
	}))
	L.SetField(tbl, "enemies", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		out := L.NewTable()
		if m.Enemies != nil {
			for _, e := range m.Enemies(v.current, id) {
				out.Append(lua.LNumber(e))
			}
		}
		L.Push(out)
		return 1
	}))
	L.SetField(tbl, "enemy_count", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		n := 0
		if m.Enemies != nil {
			n = len(m.Enemies(v.current, id))
		}
		L.Push(lua.LNumber(n))
		return 1
	}))
	return tbl
}

// UnitToTable converts info into a Lua table with snake_case keys and a
// modifiers array.
func UnitToTable(L *lua.LState, info *UnitInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LNumber(info.ID))
	L.SetField(t, "template", lua.LString(info.Template))
	L.SetField(t, "owner", lua.LNumber(info.Owner))
	L.SetField(t, "health", lua.LNumber(info.Health))
	L.SetField(t, "max_health", lua.LNumber(info.MaxHealth))
	L.SetField(t, "mana", lua.LNumber(info.Mana))
	L.SetField(t, "x", lua.LNumber(info.X))
	L.SetField(t, "y", lua.LNumber(info.Y))
	mods := L.NewTable()
	for _, id := range info.Modifiers {
		mods.Append(lua.LString(id))
	}
	L.SetField(t, "modifiers", mods)
	return t
}
