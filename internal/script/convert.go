// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     script
// Description: Conversion between Lua stack values and Go call arguments
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package script

import (
	"math"
	"sort"

	"github.com/Shopify/go-lua"
)

// arguments collects the call arguments on the stack
func arguments(state *lua.State) ([]any, map[string]any) {
	top := state.Top()
	var kwargs map[string]any
	if top > 0 {
		if m, ok := luaToGo(state, top).(map[string]any); ok {
			kwargs = m
			top--
		}
	}

	args := make([]any, 0, top)
	for i := 1; i <= top; i++ {
		switch v := luaToGo(state, i).(type) {
		case []any:
			args = append(args, v...)
		default:
			args = append(args, v)
		}
	}
	if len(kwargs) == 0 {
		kwargs = nil
	}
	return args, kwargs
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a sequence for tables keyed 1..n and a map of the
// string keys otherwise
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) <= math.MaxInt32 {
		return int(value)
	}
	return value
}

// pushGo pushes a namespace result; unsupported types become nil
func pushGo(state *lua.State, value any) {
	switch v := value.(type) {
	case nil:
		state.PushNil()
	case bool:
		state.PushBoolean(v)
	case int:
		state.PushInteger(v)
	case int64:
		state.PushNumber(float64(v))
	case float64:
		state.PushNumber(v)
	case string:
		state.PushString(v)
	case []int:
		state.CreateTable(len(v), 0)
		for i, n := range v {
			state.PushInteger(n)
			state.RawSetInt(-2, i+1)
		}
	case []float64:
		state.CreateTable(len(v), 0)
		for i, f := range v {
			state.PushNumber(f)
			state.RawSetInt(-2, i+1)
		}
	case []any:
		state.CreateTable(len(v), 0)
		for i, item := range v {
			pushGo(state, item)
			state.RawSetInt(-2, i+1)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		state.CreateTable(0, len(v))
		for _, k := range keys {
			pushGo(state, v[k])
			state.SetField(-2, k)
		}
	default:
		state.PushNil()
	}
}
