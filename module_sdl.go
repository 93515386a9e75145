// module_sdl.go: the "sdl" builtin module
//
// This build carries no graphics stack; the module is a headless shim
// that keeps event-loop programs runnable. delay() advances a frame
// counter instead of sleeping and poll_quit() reports true after 300
// frames so demo loops terminate on their own.
package tong

import (
	"fmt"
	"strings"
)

const sdlAutoQuitFrame = 300

func isSDLBuiltin(name string) bool { return strings.HasPrefix(name, "sdl_") }

func (ip *Interp) importModule(name string) (Value, error) {
	if v, ok := ip.modules[name]; ok {
		return cloneValue(v), nil
	}
	switch name {
	case "sdl":
		v := ip.importSDL()
		ip.modules[name] = v
		return v, nil
	case "linalg":
		v := importLinalg()
		ip.modules[name] = v
		return v, nil
	default:
		return Value{}, rtErrf("unknown module '%s'; built-ins: sdl, linalg", name)
	}
}

func (ip *Interp) importSDL() Value {
	if !ip.sdlNoticeSent {
		fmt.Fprintln(ip.Diag, "[TONG][SDL] No graphics backend available: using headless shim (no real window).")
		ip.sdlNoticeSent = true
	}
	obj := map[string]Value{
		"K_ESCAPE": IntV(27),
		"K_Q":      IntV(81),
		"K_W":      IntV(87),
		"K_S":      IntV(83),
		"K_UP":     IntV(1000),
		"K_DOWN":   IntV(1001),
	}
	for _, fn := range []string{
		"init", "create_window", "create_renderer", "set_draw_color",
		"clear", "fill_rect", "present", "delay", "poll_quit",
		"key_down", "destroy_renderer", "destroy_window", "quit",
	} {
		obj[fn] = FuncRefV("sdl_" + fn)
	}
	return ObjectV(obj)
}

func (ip *Interp) callSDLBuiltin(name string, args []Value) (Value, error) {
	switch name {
	case "sdl_init", "sdl_set_draw_color", "sdl_clear", "sdl_fill_rect",
		"sdl_present", "sdl_destroy_renderer", "sdl_destroy_window", "sdl_quit":
		return IntV(0), nil
	case "sdl_create_window", "sdl_create_renderer":
		return IntV(1), nil
	case "sdl_delay":
		// Count frames instead of sleeping so scripted loops stay fast.
		_ = args
		ip.sdlFrame++
		return IntV(0), nil
	case "sdl_poll_quit":
		return BoolV(ip.sdlFrame >= sdlAutoQuitFrame), nil
	case "sdl_key_down":
		return BoolV(false), nil
	default:
		return Value{}, rtErrf("unknown SDL builtin %s", name)
	}
}
