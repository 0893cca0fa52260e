package diag

import "fmt"

// Code identifies an error class. Lexical codes live in 1000-1999,
// syntactic in 2000-2999 and semantic in 3000-3999.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar         Code = 1001
	LexUnterminatedComment Code = 1002

	// Syntactic.
	SynUnexpectedToken     Code = 2001
	SynExpectExpression    Code = 2002
	SynInvalidAssignTarget Code = 2003

	// Semantic.
	NameCollision           Code = 3001
	ConflictingDeclaration  Code = 3002
	SignatureMismatch       Code = 3003
	DuplicateInitialization Code = 3004
	UndefinedSymbol         Code = 3005
	RedeclaredSymbol        Code = 3006
	TypeMismatch            Code = 3007
	InvalidOperandTypes     Code = 3008
	BranchTypeMismatch      Code = 3009
	ReturnTypeMismatch      Code = 3010
	ArgumentTypeMismatch    Code = 3011
	ArityMismatch           Code = 3012
	LvalueRequired          Code = 3013
	AddressOfRValue         Code = 3014
	DereferenceOfNonPointer Code = 3015
	SubscriptOfNonIndexable Code = 3016
	BreakOutsideLoop        Code = 3017
	ContinueOutsideLoop     Code = 3018
	InvalidArrayDimension   Code = 3019
	LiteralOverflow         Code = 3020
	MissingEntryPoint       Code = 3021
)

var codeNames = map[Code]string{
	LexUnknownChar:          "LexUnknownChar",
	LexUnterminatedComment:  "LexUnterminatedComment",
	SynUnexpectedToken:      "SynUnexpectedToken",
	SynExpectExpression:     "SynExpectExpression",
	SynInvalidAssignTarget:  "SynInvalidAssignTarget",
	NameCollision:           "NameCollision",
	ConflictingDeclaration:  "ConflictingDeclaration",
	SignatureMismatch:       "SignatureMismatch",
	DuplicateInitialization: "DuplicateInitialization",
	UndefinedSymbol:         "UndefinedSymbol",
	RedeclaredSymbol:        "RedeclaredSymbol",
	TypeMismatch:            "TypeMismatch",
	InvalidOperandTypes:     "InvalidOperandTypes",
	BranchTypeMismatch:      "BranchTypeMismatch",
	ReturnTypeMismatch:      "ReturnTypeMismatch",
	ArgumentTypeMismatch:    "ArgumentTypeMismatch",
	ArityMismatch:           "ArityMismatch",
	LvalueRequired:          "LvalueRequired",
	AddressOfRValue:         "AddressOfRValue",
	DereferenceOfNonPointer: "DereferenceOfNonPointer",
	SubscriptOfNonIndexable: "SubscriptOfNonIndexable",
	BreakOutsideLoop:        "BreakOutsideLoop",
	ContinueOutsideLoop:     "ContinueOutsideLoop",
	InvalidArrayDimension:   "InvalidArrayDimension",
	LiteralOverflow:         "LiteralOverflow",
	MissingEntryPoint:       "MissingEntryPoint",
}

// ID renders the stable phase-prefixed identifier, e.g. "SEM3013".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) String() string {
	name, ok := codeNames[c]
	if !ok {
		return "UnknownCode"
	}
	return name
}
