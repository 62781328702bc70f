package interp

import "strings"

// scanRemBlock finds the matching END_REM_BLOCK line for a REM_BLOCK at
// start, returning -1 if the script ends first (spec.md: unterminated
// block ends the script).
func (in *Interpreter) scanRemBlock(start int) int {
	for i := start + 1; i < len(in.Script.Lines); i++ {
		if strings.TrimSpace(in.Script.Lines[i]) == "END_REM_BLOCK" {
			return i
		}
	}
	return -1
}

// scanIfBlock finds the top-level ELSE (or -1 if none) and the matching
// ENDIF/END_IF for an IF at start, counting nested IF/ENDIF pairs.
func (in *Interpreter) scanIfBlock(start int) (elseLine, endifLine int) {
	elseLine = -1
	depth := 0
	for i := start + 1; i < len(in.Script.Lines); i++ {
		t := strings.TrimSpace(in.Script.Lines[i])
		switch {
		case strings.HasPrefix(t, "IF "):
			depth++
		case t == "ELSE":
			if depth == 0 && elseLine == -1 {
				elseLine = i
			}
		case t == "ENDIF" || t == "END_IF":
			if depth == 0 {
				return elseLine, i
			}
			depth--
		}
	}
	return elseLine, -1
}

// scanForBlock finds the matching NEXT for a FOR at start, counting
// nested FOR/NEXT pairs.
func (in *Interpreter) scanForBlock(start int) int {
	depth := 0
	for i := start + 1; i < len(in.Script.Lines); i++ {
		t := strings.TrimSpace(in.Script.Lines[i])
		switch {
		case strings.HasPrefix(t, "FOR $"):
			depth++
		case t == "NEXT":
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// scanFunctionEnd finds the next END_FUNCTION line after a FUNCTION
// header at start. Function bodies are not expected to nest.
func (in *Interpreter) scanFunctionEnd(start int) int {
	for i := start + 1; i < len(in.Script.Lines); i++ {
		if strings.TrimSpace(in.Script.Lines[i]) == "END_FUNCTION" {
			return i
		}
	}
	return -1
}
