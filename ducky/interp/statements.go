package interp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kelexine/hid-gadget-module/ducky/eval"
)

var ifPattern = regexp.MustCompile(`^IF\s+(.+?)\s+THEN\s*$`)
var forPattern = regexp.MustCompile(`^FOR\s+\$([A-Za-z0-9_]+)\s*=\s*(.+?)\s+TO\s+(.+)$`)
var assignPattern = regexp.MustCompile(`^(?:VAR\s+)?\$([A-Za-z0-9_]+)\s*=\s*(.*)$`)
var intOpIntPattern = regexp.MustCompile(`^\s*(-?\d+)\s*([+\-*/])\s*(-?\d+)\s*$`)

func (in *Interpreter) execIf(trimmed string) (jumped bool, sleepAfter bool, err error) {
	m := ifPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return false, false, nil
	}
	if eval.Eval(m[1], in.Env.Get) {
		in.pc++
		return true, false, nil
	}
	elseLine, endifLine := in.scanIfBlock(in.pc)
	switch {
	case elseLine >= 0:
		in.pc = elseLine + 1
	case endifLine >= 0:
		in.pc = endifLine + 1
	default:
		in.pc = len(in.Script.Lines)
	}
	return true, false, nil
}

func (in *Interpreter) execFor(trimmed string) (jumped bool, sleepAfter bool, err error) {
	m := forPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return false, false, nil
	}
	varName := m[1]
	startVal, _ := strconv.Atoi(eval.Substitute(m[2], in.Env.Get))
	endVal, _ := strconv.Atoi(eval.Substitute(m[3], in.Env.Get))
	nextLine := in.scanForBlock(in.pc)

	if startVal > endVal {
		if nextLine < 0 {
			in.pc = len(in.Script.Lines)
		} else {
			in.pc = nextLine + 1
		}
		return true, false, nil
	}

	in.loops = append(in.loops, loopFrame{
		varName:  varName,
		current:  startVal,
		end:      endVal,
		forLine:  in.pc,
		nextLine: nextLine,
	})
	in.Env.Set(varName, strconv.Itoa(startVal))
	in.pc++
	return true, false, nil
}

func (in *Interpreter) execNext() (jumped bool, sleepAfter bool, err error) {
	if len(in.loops) == 0 {
		return false, false, nil
	}
	frame := &in.loops[len(in.loops)-1]
	frame.current++
	if frame.current <= frame.end {
		in.Env.Set(frame.varName, strconv.Itoa(frame.current))
		in.pc = frame.forLine + 1
		return true, false, nil
	}
	exitLine := frame.nextLine
	in.loops = in.loops[:len(in.loops)-1]
	if exitLine < 0 {
		in.pc = len(in.Script.Lines)
	} else {
		in.pc = exitLine + 1
	}
	return true, false, nil
}

func (in *Interpreter) execAssign(trimmed string) error {
	m := assignPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil
	}
	name, exprRaw := m[1], strings.TrimSpace(m[2])

	if opm := intOpIntPattern.FindStringSubmatch(exprRaw); opm != nil {
		l, _ := strconv.Atoi(opm[1])
		r, _ := strconv.Atoi(opm[3])
		var result int
		switch opm[2] {
		case "+":
			result = l + r
		case "-":
			result = l - r
		case "*":
			result = l * r
		case "/":
			if r == 0 {
				result = 0
			} else {
				result = l / r
			}
		}
		in.Env.Set(name, strconv.Itoa(result))
		return nil
	}

	in.Env.Set(name, eval.Substitute(exprRaw, in.Env.Get))
	return nil
}

func (in *Interpreter) execReturn() (jumped bool, sleepAfter bool, err error) {
	if len(in.callStack) == 0 {
		return false, false, nil
	}
	ret := in.callStack[len(in.callStack)-1]
	in.callStack = in.callStack[:len(in.callStack)-1]
	in.pc = ret
	return true, false, nil
}
