package cosmac

// operandKind selects how an instruction's operand is fetched and printed.
type operandKind uint8

const (
	operandNone operandKind = iota
	operandRegister
	operandPort
	operandImmediate
	operandShortBranch
	operandLongBranch
	operandShortSkip
	operandLongSkip
	operandRegisterShortBranch
	operandRegisterLongBranch
	operandRegisterDoubleImmediate
	// operandPage fetches a second opcode byte and dispatches through the
	// extended table.
	operandPage
)

// row matches every opcode op with op&mask == match. Within one table
// later rows override earlier ones, so a block row can be followed by
// exact rows that carve out single opcodes.
type row struct {
	mask, match byte
	mnemonic    string
	operand     operandKind
	flow        Flow
}

func exact(op byte, mnemonic string, operand operandKind) row {
	return row{mask: 0xff, match: op, mnemonic: mnemonic, operand: operand}
}

// block covers the sixteen opcodes whose low nibble is a register number.
func block(op byte, mnemonic string, operand operandKind) row {
	return row{mask: 0xf0, match: op, mnemonic: mnemonic, operand: operand}
}

func (r row) with(f Flow) row {
	r.flow = f
	return r
}

// cdp1801Rows is the instruction set every COSMAC decodes.
var cdp1801Rows = []row{
	block(0x00, "LDN", operandRegister),
	exact(0x00, "IDL", operandNone),
	block(0x10, "INC", operandRegister),
	block(0x20, "DEC", operandRegister),

	exact(0x30, "BR", operandShortBranch),
	exact(0x32, "BZ", operandShortBranch),
	exact(0x33, "BDF", operandShortBranch),
	exact(0x34, "B1", operandShortBranch),
	exact(0x35, "B2", operandShortBranch),
	exact(0x36, "B3", operandShortBranch),
	exact(0x37, "B4", operandShortBranch),
	exact(0x38, "SKP", operandShortSkip),
	exact(0x3a, "BNZ", operandShortBranch),
	exact(0x3b, "BNF", operandShortBranch),
	exact(0x3c, "BN1", operandShortBranch),
	exact(0x3d, "BN2", operandShortBranch),
	exact(0x3e, "BN3", operandShortBranch),
	exact(0x3f, "BN4", operandShortBranch),

	block(0x40, "LDA", operandRegister),
	block(0x50, "STR", operandRegister),

	// 0x60 and 0x68 are OUT 0 and INP 0 here; the CDP1802 reassigns both.
	{mask: 0xf8, match: 0x60, mnemonic: "OUT", operand: operandPort},
	{mask: 0xf8, match: 0x68, mnemonic: "INP", operand: operandPort},

	exact(0x70, "RET", operandNone).with(FlowStepOut),
	exact(0x71, "DIS", operandNone).with(FlowStepOut),
	exact(0x78, "SAV", operandNone),

	block(0x80, "GLO", operandRegister),
	block(0x90, "GHI", operandRegister),
	block(0xa0, "PLO", operandRegister),
	block(0xb0, "PHI", operandRegister),
	block(0xd0, "SEP", operandRegister).with(FlowStepOver),
	block(0xe0, "SEX", operandRegister),

	exact(0xf0, "LDX", operandNone),
	exact(0xf1, "OR", operandNone),
	exact(0xf2, "AND", operandNone),
	exact(0xf3, "XOR", operandNone),
	exact(0xf4, "ADD", operandNone),
	exact(0xf5, "SD", operandNone),
	exact(0xf6, "SHR", operandNone),
	exact(0xf7, "SM", operandNone),
	exact(0xf8, "LDI", operandImmediate),
	exact(0xf9, "ORI", operandImmediate),
	exact(0xfa, "ANI", operandImmediate),
	exact(0xfb, "XRI", operandImmediate),
	exact(0xfc, "ADI", operandImmediate),
	exact(0xfd, "SDI", operandImmediate),
	exact(0xff, "SMI", operandImmediate),
}

// cdp1802Rows is consulted before cdp1801Rows on the CDP1802 and later.
var cdp1802Rows = []row{
	exact(0x31, "BQ", operandShortBranch),
	exact(0x39, "BNQ", operandShortBranch),

	exact(0x60, "IRX", operandNone),
	exact(0x68, "", operandPage),

	exact(0x72, "LDXA", operandNone),
	exact(0x73, "STXD", operandNone),
	exact(0x74, "ADC", operandNone),
	exact(0x75, "SDB", operandNone),
	exact(0x76, "SHRC", operandNone),
	exact(0x77, "SMB", operandNone),
	exact(0x79, "MARK", operandNone),
	exact(0x7a, "REQ", operandNone),
	exact(0x7b, "SEQ", operandNone),
	exact(0x7c, "ADCI", operandImmediate),
	exact(0x7d, "SDBI", operandImmediate),
	exact(0x7e, "SHLC", operandNone),
	exact(0x7f, "SMBI", operandImmediate),

	exact(0xc0, "LBR", operandLongBranch),
	exact(0xc1, "LBQ", operandLongBranch),
	exact(0xc2, "LBZ", operandLongBranch),
	exact(0xc3, "LBDF", operandLongBranch),
	exact(0xc4, "NOP", operandNone),
	exact(0xc5, "LSNQ", operandLongSkip),
	exact(0xc6, "LSNZ", operandLongSkip),
	exact(0xc7, "LSNF", operandLongSkip),
	exact(0xc8, "LSKP", operandLongSkip),
	exact(0xc9, "LBNQ", operandLongBranch),
	exact(0xca, "LBNZ", operandLongBranch),
	exact(0xcb, "LBNF", operandLongBranch),
	exact(0xcc, "LSIE", operandLongSkip),
	exact(0xcd, "LSQ", operandLongSkip),
	exact(0xce, "LSZ", operandLongSkip),
	exact(0xcf, "LSDF", operandLongSkip),

	exact(0xfe, "SHL", operandNone),
}

// cdp1805PageRows is the instruction page behind the 0x68 prefix.
var cdp1805PageRows = []row{
	exact(0x00, "STPC", operandNone),
	exact(0x01, "DTC", operandNone),
	exact(0x02, "SPM2", operandNone),
	exact(0x03, "SCM2", operandNone),
	exact(0x04, "SPM1", operandNone),
	exact(0x05, "SCM1", operandNone),
	exact(0x06, "LDC", operandNone),
	exact(0x07, "STM", operandNone),
	exact(0x08, "GEC", operandNone),
	exact(0x09, "ETQ", operandNone),
	exact(0x0a, "XIE", operandNone),
	exact(0x0b, "XID", operandNone),
	exact(0x0c, "CIE", operandNone),
	exact(0x0d, "CID", operandNone),

	block(0x20, "DJNZ", operandRegisterShortBranch),
	exact(0x3e, "BCI", operandShortBranch),
	exact(0x3f, "BXI", operandShortBranch),

	block(0x60, "RLXA", operandRegister),

	exact(0x74, "DADC", operandNone),
	exact(0x76, "DSAV", operandNone),
	exact(0x77, "DSMB", operandNone),
	exact(0x7c, "DACI", operandImmediate),
	exact(0x7f, "DSBI", operandImmediate),

	block(0x80, "SCAL", operandRegisterLongBranch),
	block(0x90, "SRET", operandRegister),
	block(0xa0, "RSXD", operandRegister),
	block(0xb0, "RNX", operandRegister),
	block(0xc0, "RLDI", operandRegisterDoubleImmediate),

	exact(0xf4, "DADD", operandNone),
	exact(0xf7, "DSM", operandNone),
	exact(0xfc, "DADI", operandImmediate),
	exact(0xff, "DSMI", operandImmediate),
}

// opcodeTable maps an opcode byte to its row; nil means illegal.
type opcodeTable [256]*row

func (t *opcodeTable) apply(rows []row) {
	for i := range rows {
		r := &rows[i]
		for op := 0; op < 256; op++ {
			if byte(op)&r.mask == r.match {
				t[op] = r
			}
		}
	}
}

var (
	primaryTables [numVariants]opcodeTable
	pageTables    [numVariants]opcodeTable
)

func init() {
	for v := CDP1801; v < numVariants; v++ {
		primaryTables[v].apply(cdp1801Rows)
		if v >= CDP1802 {
			primaryTables[v].apply(cdp1802Rows)
		}
		// The CDP1802 fetches the byte after 0x68 but defines nothing there.
		if v >= CDP1805 {
			pageTables[v].apply(cdp1805PageRows)
		}
	}
}
