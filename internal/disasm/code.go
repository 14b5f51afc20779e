package disasm

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/instruction"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
	startLabel  = "Start"

	dataBytesPerLine = 8
)

// processJumpDestinations processes all jump destinations and generates
// the label names that the callers reference.
func (dis *Disasm) processJumpDestinations() {
	for _, address := range set.Sorted(dis.branchDestinations) {
		index := dis.addressToIndex(address)
		offsetInfo := &dis.offsets[index]

		if offsetInfo.label == "" {
			if offsetInfo.callDestination {
				offsetInfo.label = fmt.Sprintf(funcNaming, address)
			} else {
				offsetInfo.label = fmt.Sprintf(labelNaming, address)
			}
		}

		// the jump destination is inside the second byte of an instruction
		if offsetInfo.codeTail {
			dis.handleJumpIntoInstruction(index)
		}
	}
}

// processDataReferences names all addresses that get loaded into I and are
// not already labeled.
func (dis *Disasm) processDataReferences() {
	for _, address := range set.Sorted(dis.dataReferences) {
		offsetInfo := &dis.offsets[dis.addressToIndex(address)]
		if offsetInfo.label == "" && !offsetInfo.codeTail {
			offsetInfo.label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// handleJumpIntoInstruction converts an instruction that has a jump
// destination label inside its second byte into data.
func (dis *Disasm) handleJumpIntoInstruction(index int) {
	start := &dis.offsets[index-1]
	start.comment = "branch into instruction detected: " + start.text
	start.code = false
	dis.offsets[index].codeTail = false

	dis.logger.Debug("Branch into instruction detected",
		log.Hex("address", dis.indexToAddress(index-1)))
}

// codeText returns the instruction text with the referenced address
// replaced by its label.
func (dis *Disasm) codeText(offsetInfo offset) string {
	if !offsetInfo.hasTarget {
		return offsetInfo.text
	}

	target := dis.offsets[dis.addressToIndex(offsetInfo.target)]
	if target.label == "" || target.codeTail {
		return offsetInfo.text
	}

	name, _ := Lookup(offsetInfo.word)
	ins := instruction.DecodeWord(offsetInfo.word)
	switch ins.Family {
	case 0x1:
		return name.Name + " " + formatJump(ins, target.label)
	case 0x2:
		return name.Name + " " + target.label
	case 0xA:
		return name.Name + " " + formatLoad(ins, target.label)
	}
	return offsetInfo.text
}
