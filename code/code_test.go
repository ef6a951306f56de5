package code

import "testing"

func TestMakeReadOperands(t *testing.T) {
	tests := []struct {
		op        Opcode
		operands  []int
		byteCount int
	}{
		{GREF, []int{32767}, 3},
		{PUSHINT, []int{1000000}, 9},
		{CREF, []int{1, 2}, 4},
		{CALL, []int{-1}, 3},
		{POP, []int{}, 1},
	}

	for _, tt := range tests {
		ins := Make(tt.op, tt.operands...)
		if len(ins) != tt.byteCount {
			t.Fatalf("instruction has wrong length for %s. want=%d, got=%d",
				definitions[tt.op].Name, tt.byteCount, len(ins))
		}

		def, err := Lookup(byte(tt.op))
		if err != nil {
			t.Fatalf("definition not found: %s", err)
		}

		operandsRead, n := ReadOperands(def, Instructions(ins[1:]))
		if n != tt.byteCount-1 {
			t.Fatalf("n wrong. want=%d, got=%d", tt.byteCount-1, n)
		}

		for i, want := range tt.operands {
			if operandsRead[i] != want {
				t.Errorf("operand wrong. want=%d, got=%d", want, operandsRead[i])
			}
		}
	}
}

func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(ADD),
		Make(GREF, 1),
		Make(CREF, 1, 2),
		Make(PUSHINT, 65535),
	}

	expected := `0000 ADD
0001 GREF 1
0004 CREF 1 2
0008 PUSHINT 65535
`

	concatted := Instructions{}
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	if concatted.String() != expected {
		t.Errorf("instructions wrongly formatted.\nwant=%q\ngot=%q", expected, concatted.String())
	}
}
