package types

import (
	"fmt"
	"strings"
)

// SLRType selects the temporal profile of sea-level rise.
type SLRType uint8

const (
	SLR_Linear SLRType = iota
	SLR_Accel
	SLR_TimePulse
)

var SLRNameMap = map[string]SLRType{
	"linear": SLR_Linear,
	"accel":  SLR_Accel,
	"timep":  SLR_TimePulse,
}

var slrNames = []string{"linear", "accel", "timep"}

func NewSLRType(label string) (st SLRType, err error) {
	var ok bool
	if st, ok = SLRNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unsupported sea level rise type %q, use one of %v", label, slrNames)
	}
	return
}

func (st SLRType) String() string {
	if int(st) < len(slrNames) {
		return slrNames[st]
	}
	return fmt.Sprintf("SLRType(%d)", st)
}

// FlatRegime is the state of the intertidal flat. FlatClosed is terminal.
type FlatRegime uint8

const (
	FlatOpen FlatRegime = iota
	FlatClosed
)

func (fr FlatRegime) String() string {
	switch fr {
	case FlatOpen:
		return "open"
	case FlatClosed:
		return "closed"
	}
	return fmt.Sprintf("FlatRegime(%d)", fr)
}

// Close returns the regime after a closure trigger; there is no way back.
func (fr FlatRegime) Close() FlatRegime { return FlatClosed }

func (fr FlatRegime) IsOpen() bool { return fr == FlatOpen }
