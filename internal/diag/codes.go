package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Constant evaluation
	ConstInfo         Code = 4000
	ConstOverflow     Code = 4001
	ConstDivByZero    Code = 4002
	ConstNotConstant  Code = 4003
	ConstTypeMismatch Code = 4004
	ConstCycle        Code = 4005
	ConstUnknownItem  Code = 4006

	// Input and configuration
	InputInfo          Code = 5000
	InputBadFixture    Code = 5001
	InputBadConfig     Code = 5002
	InputUnknownTarget Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Internal compiler errors
	ICE Code = 9000
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	ConstInfo:          "Constant evaluation information",
	ConstOverflow:      "Arithmetic overflow in constant expression",
	ConstDivByZero:     "Division by zero in constant expression",
	ConstNotConstant:   "Expression is not constant",
	ConstTypeMismatch:  "Constant operands have mismatched types",
	ConstCycle:         "Constant refers to itself",
	ConstUnknownItem:   "Constant refers to an unknown item",
	InputInfo:          "Input information",
	InputBadFixture:    "Malformed program description",
	InputBadConfig:     "Malformed configuration",
	InputUnknownTarget: "Unknown target",
	ObsInfo:            "Observability information",
	ObsTimings:         "Pipeline timings",
	ICE:                "Internal compiler error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CST%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("INP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
