package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/symflow/internal/traverse"
	"github.com/dshills/symflow/internal/walker"
)

// ModuleName is the global table the bridge installs.
const ModuleName = "symflow"

// traversalTypeName is the metatable key for traversal userdata.
const traversalTypeName = "symflow.traversal"

// DefineFunc receives a traversal a script publishes via
// symflow.define.
type DefineFunc func(name string, t traverse.Traversal) error

// Bridge installs the symflow module into a Lua state. Scripts build
// traversal values with the constructor functions, publish them with
// define, and drive the bound walker with the primitive and predicate
// functions. Constructors work without a walker; everything that moves
// or inspects the cursor needs one bound first.
type Bridge struct {
	state  *State
	define DefineFunc
	walker *walker.Walker
}

// NewBridge creates a bridge over state. define may be nil, in which
// case symflow.define raises an error in the script.
func NewBridge(state *State, define DefineFunc) *Bridge {
	return &Bridge{state: state, define: define}
}

// BindWalker sets the walker the module's primitives and predicates
// operate on. Passing nil unbinds.
func (b *Bridge) BindWalker(w *walker.Walker) {
	b.walker = w
}

// Install registers the traversal type and the symflow module.
func (b *Bridge) Install() {
	L := b.state.L

	mt := L.NewTypeMetatable(traversalTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		t := b.checkTraversal(L, 1)
		L.Push(lua.LString(describe(t)))
		return 1
	}))

	b.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"move":       b.luaMove,
		"maneuver":   b.luaManeuver,
		"circuit":    b.luaCircuit,
		"detour":     b.luaDetour,
		"precaution": b.luaPrecaution,
		"protocol":   b.luaProtocol,
		"define":     b.luaDefine,

		"run":      b.luaRun,
		"forward":  b.luaForward,
		"backward": b.luaBackward,
		"enter":    b.luaEnter,
		"exit":     b.luaExit,
		"pos":      b.luaPos,
		"set_pos":  b.luaSetPos,

		"at_root":    b.luaAtRoot,
		"at_first":   b.luaAtFirst,
		"at_last":    b.luaAtLast,
		"at_final":   b.luaAtFinal,
		"at_initial": b.luaAtInitial,
		"on_empty":   b.luaOnEmpty,
		"on_comment": b.luaOnComment,
	})
}

// Constructors

func (b *Bridge) luaMove(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)
	return b.pushTraversal(L, traverse.NewMove(x, y))
}

func (b *Bridge) luaManeuver(L *lua.LState) int {
	return b.pushTraversal(L, traverse.NewManeuver(b.collectTraversals(L)...))
}

func (b *Bridge) luaCircuit(L *lua.LState) int {
	t := b.checkTraversal(L, 1)
	times := L.OptInt(2, 0)
	return b.pushTraversal(L, traverse.NewCircuit(t, times))
}

func (b *Bridge) luaDetour(L *lua.LState) int {
	reorientation := b.checkTraversal(L, 1)
	t := b.checkTraversal(L, 2)
	return b.pushTraversal(L, traverse.NewDetour(reorientation, t))
}

func (b *Bridge) luaPrecaution(L *lua.LState) int {
	t := b.checkTraversal(L, 1)
	var pre, post traverse.Condition
	if opts := L.OptTable(2, nil); opts != nil {
		if fn, ok := L.GetField(opts, "pre").(*lua.LFunction); ok {
			pre = b.condition(fn)
		}
		if fn, ok := L.GetField(opts, "post").(*lua.LFunction); ok {
			post = b.condition(fn)
		}
	}
	return b.pushTraversal(L, traverse.NewPrecaution(t, pre, post))
}

func (b *Bridge) luaProtocol(L *lua.LState) int {
	return b.pushTraversal(L, traverse.NewProtocol(b.collectTraversals(L)...))
}

func (b *Bridge) luaDefine(L *lua.LState) int {
	name := L.CheckString(1)
	t := b.checkTraversal(L, 2)
	if b.define == nil {
		L.RaiseError("symflow: define is not available here")
		return 0
	}
	if err := b.define(name, t); err != nil {
		L.RaiseError("symflow: define %s: %s", name, err.Error())
	}
	return 0
}

// Execution

func (b *Bridge) luaRun(L *lua.LState) int {
	t := b.checkTraversal(L, 1)
	w := b.walkerOrRaise(L)
	m, ok := w.Run(t)
	return pushMoveResult(L, m, ok)
}

func (b *Bridge) luaForward(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	m, ok := w.Forward(L.OptInt(1, 1))
	return pushMoveResult(L, m, ok)
}

func (b *Bridge) luaBackward(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	m, ok := w.Backward(L.OptInt(1, 1))
	return pushMoveResult(L, m, ok)
}

func (b *Bridge) luaEnter(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	m, ok := w.Enter(L.OptInt(1, 1))
	return pushMoveResult(L, m, ok)
}

func (b *Bridge) luaExit(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	m, ok := w.Exit(L.OptInt(1, 1))
	return pushMoveResult(L, m, ok)
}

func (b *Bridge) luaPos(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	L.Push(lua.LNumber(w.Scanner().Pos()))
	return 1
}

func (b *Bridge) luaSetPos(L *lua.LState) int {
	w := b.walkerOrRaise(L)
	w.Scanner().SetPos(L.CheckInt64(1))
	return 0
}

// Predicates

func (b *Bridge) luaAtRoot(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).AtRoot)
}

func (b *Bridge) luaAtFirst(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).AtFirstInLevel)
}

func (b *Bridge) luaAtLast(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).AtLastInLevel)
}

func (b *Bridge) luaAtFinal(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).AtFinalExpr)
}

func (b *Bridge) luaAtInitial(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).AtInitialExpr)
}

func (b *Bridge) luaOnEmpty(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).OnEmptyCompound)
}

func (b *Bridge) luaOnComment(L *lua.LState) int {
	return b.predicate(L, (*walker.Walker).OnCommentLine)
}

// Helpers

func (b *Bridge) predicate(L *lua.LState, test func(*walker.Walker) bool) int {
	w := b.walkerOrRaise(L)
	L.Push(lua.LBool(test(w)))
	return 1
}

func (b *Bridge) walkerOrRaise(L *lua.LState) *walker.Walker {
	if b.walker == nil {
		L.RaiseError("symflow: no walker bound")
	}
	return b.walker
}

func (b *Bridge) collectTraversals(L *lua.LState) []traverse.Traversal {
	n := L.GetTop()
	ts := make([]traverse.Traversal, 0, n)
	for i := 1; i <= n; i++ {
		ts = append(ts, b.checkTraversal(L, i))
	}
	return ts
}

func (b *Bridge) checkTraversal(L *lua.LState, n int) traverse.Traversal {
	ud := L.CheckUserData(n)
	t, ok := ud.Value.(traverse.Traversal)
	if !ok {
		L.ArgError(n, "traversal expected")
		return nil
	}
	return t
}

func (b *Bridge) pushTraversal(L *lua.LState, t traverse.Traversal) int {
	ud := L.NewUserData()
	ud.Value = t
	L.SetMetatable(ud, L.GetTypeMetatable(traversalTypeName))
	L.Push(ud)
	return 1
}

// condition wraps a Lua function as a traversal condition. A failing
// call counts as false.
func (b *Bridge) condition(fn *lua.LFunction) traverse.Condition {
	L := b.state.L
	return func() bool {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
			return false
		}
		ret := L.Get(-1)
		L.Pop(1)
		return lua.LVAsBool(ret)
	}
}

func pushMoveResult(L *lua.LState, m traverse.Move, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	L.SetField(tbl, "x", lua.LNumber(m.X))
	L.SetField(tbl, "y", lua.LNumber(m.Y))
	L.Push(tbl)
	return 1
}

func describe(t traverse.Traversal) string {
	switch v := t.(type) {
	case traverse.Move:
		return "move" + v.String()
	case traverse.Maneuver:
		return fmt.Sprintf("maneuver[%d]", len(v.Phases))
	case traverse.Circuit:
		return fmt.Sprintf("circuit[%d]", v.Times)
	case traverse.Detour:
		return "detour"
	case traverse.Precaution:
		return "precaution"
	case traverse.Protocol:
		return fmt.Sprintf("protocol[%d]", len(v.Options))
	default:
		return "traversal"
	}
}
