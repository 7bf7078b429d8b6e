package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zapcore"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/scripting"
)

func runScript(t *testing.T, mgr *scripting.Manager, scope, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	require.NoError(t, mgr.LoadScope(scope, dir, 0))
	ret, err := mgr.CallHook(scope, hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, "logs", `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		assert.True(t, hasLevel(logs, level), "expected %s log", level)
	}
	entries := logs.FilterMessage("lua: i").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "logs", entries[0].ContextMap()["scope"])
}

func TestEngineUnit_Get_NilCallback_ReturnsNil(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, "b", `function f() return engine.unit.get(1) end`, "f")
	assert.Equal(t, lua.LNil, ret)
}

func TestEngineUnit_Get_RoutesByCallingScope(t *testing.T) {
	mgr, _ := newTestManager(t)
	var seen []string
	mgr.GetUnit = func(scope string, id int) *scripting.UnitInfo {
		seen = append(seen, scope)
		if id != 7 {
			return nil
		}
		return &scripting.UnitInfo{ID: 7, Template: "ogre", Health: 4, MaxHealth: 10, X: 2, Y: 3, Modifiers: []string{"stun"}}
	}
	require.NoError(t, mgr.LoadGlobal(writeTempLua(t, "g.lua", `
		function describe(id)
			local u = engine.unit.get(id)
			if u == nil then return "none" end
			return u.template .. ":" .. u.health .. "/" .. u.max_health .. "@" .. u.x .. "," .. u.y .. ":" .. u.modifiers[1]
		end
	`), 0))

	ret, err := mgr.CallHook("battle-a", "describe", lua.LNumber(7))
	require.NoError(t, err)
	assert.Equal(t, lua.LString("ogre:4/10@2,3:stun"), ret)

	ret, err = mgr.CallHook("battle-b", "describe", lua.LNumber(8))
	require.NoError(t, err)
	assert.Equal(t, lua.LString("none"), ret)
	assert.Equal(t, []string{"battle-a", "battle-b"}, seen)
}

func TestEngineUnit_Enemies(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Enemies = func(scope string, id int) []int { return []int{id + 1, id + 2} }
	ret := runScript(t, mgr, "b", `
		function sum_enemies(id)
			local s = 0
			for _, e in ipairs(engine.unit.enemies(id)) do s = s + e end
			return s * 100 + engine.unit.enemy_count(id)
		end
	`, "sum_enemies", lua.LNumber(1))
	assert.Equal(t, lua.LNumber(502), ret)
}

func TestEngineUnit_EnemyCount_NilCallback_ReturnsZero(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, "b", `function f() return engine.unit.enemy_count(1) end`, "f")
	assert.Equal(t, lua.LNumber(0), ret)
}

func TestProperty_UnitToTable_PreservesFields(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		info := &scripting.UnitInfo{
			ID:        rapid.IntRange(1, 1000).Draw(rt, "id"),
			Health:    rapid.IntRange(0, 100).Draw(rt, "health"),
			MaxHealth: rapid.IntRange(1, 100).Draw(rt, "max"),
			Modifiers: rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 5).Draw(rt, "mods"),
		}
		L, cancel := scripting.NewSandboxedState(0)
		defer cancel()
		defer L.Close()
		tbl := scripting.UnitToTable(L, info)
		if got := L.GetField(tbl, "health"); got != lua.LNumber(info.Health) {
			rt.Fatalf("health = %v, want %d", got, info.Health)
		}
		mods := L.GetField(tbl, "modifiers").(*lua.LTable)
		if mods.Len() != len(info.Modifiers) {
			rt.Fatalf("modifiers len = %d, want %d", mods.Len(), len(info.Modifiers))
		}
	})
}
