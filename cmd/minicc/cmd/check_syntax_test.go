package cmd

import "testing"

func TestRunCheckSyntaxValidProgram(t *testing.T) {
	checkSyntaxEvalExpr = `void main(void) { output(1); }`
	jsonFlag = false
	strictFlag = false
	defer func() { checkSyntaxEvalExpr = "" }()

	if err := runCheckSyntax(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCheckSyntaxReportsFailure(t *testing.T) {
	checkSyntaxEvalExpr = `void main(void) { x = }`
	jsonFlag = false
	strictFlag = false
	defer func() { checkSyntaxEvalExpr = "" }()

	if err := runCheckSyntax(nil, nil); err == nil {
		t.Fatalf("expected an error for invalid syntax")
	}
}

func TestRunCheckTypesValidProgram(t *testing.T) {
	checkTypesEvalExpr = `void main(void) { int x; x = 1; output(x); }`
	jsonFlag = false
	strictFlag = false
	defer func() { checkTypesEvalExpr = "" }()

	if err := runCheckTypes(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCheckTypesReportsFailure(t *testing.T) {
	checkTypesEvalExpr = `void main(void) { output(undeclared); }`
	jsonFlag = false
	strictFlag = false
	defer func() { checkTypesEvalExpr = "" }()

	if err := runCheckTypes(nil, nil); err == nil {
		t.Fatalf("expected an error for an undeclared identifier")
	}
}

func TestRunLexTokenizesInlineExpression(t *testing.T) {
	lexEvalExpr = `int x;`
	jsonFlag = false
	showPos, showType = false, false
	defer func() { lexEvalExpr = "" }()

	if err := runLex(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunParsePrintsASTForValidProgram(t *testing.T) {
	parseEvalExpr = `void main(void) { output(1); }`
	jsonFlag = false
	defer func() { parseEvalExpr = "" }()

	if err := runParse(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunParseFailsOnSyntaxError(t *testing.T) {
	parseEvalExpr = `void main(void) { x = }`
	jsonFlag = false
	defer func() { parseEvalExpr = "" }()

	if err := runParse(nil, nil); err == nil {
		t.Fatalf("expected an error for invalid syntax")
	}
}
