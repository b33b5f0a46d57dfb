package cbus

type field struct {
	name  string
	width int
}

var (
	fNN      = field{"NN", 2}
	fEN      = field{"EN", 2}
	fDN      = field{"DN", 2}
	fSession = field{"Session", 1}
	fCV      = field{"CV", 2}
	fValue   = field{"Value", 1}
	fIndex   = field{"Index", 1}
	fEV      = field{"EV", 1}
	fNV      = field{"NV", 1}
	fCANID   = field{"CANID", 1}
	fError   = field{"Error", 1}
)

type opCode struct {
	name   string
	fields []field
}

var opCodes = map[byte]opCode{
	0x00: {"ACK", nil},
	0x01: {"NAK", nil},
	0x02: {"HLT", nil},
	0x03: {"BON", nil},
	0x04: {"TOF", nil},
	0x05: {"TON", nil},
	0x06: {"ESTOP", nil},
	0x07: {"ARST", nil},
	0x08: {"RTOF", nil},
	0x09: {"RTON", nil},
	0x0A: {"RESTP", nil},
	0x0C: {"RSTAT", nil},
	0x0D: {"QNN", nil},
	0x10: {"RQNP", nil},
	0x11: {"RQMN", nil},
	0x21: {"KLOC", []field{fSession}},
	0x22: {"QLOC", []field{fSession}},
	0x23: {"DKEEP", []field{fSession}},
	0x30: {"DBG1", []field{fValue}},
	0x3F: {"EXTC", nil},
	0x40: {"RLOC", nil},
	0x41: {"QCON", nil},
	0x42: {"SNN", []field{fNN}},
	0x43: {"ALOC", []field{fSession}},
	0x44: {"STMOD", []field{fSession}},
	0x45: {"PCON", nil},
	0x46: {"KCON", nil},
	0x47: {"DSPD", []field{fSession}},
	0x48: {"DFLG", []field{fSession}},
	0x49: {"DFNON", []field{fSession}},
	0x4A: {"DFNOF", []field{fSession}},
	0x4C: {"SSTAT", []field{fSession}},
	0x4F: {"NNRSM", []field{fNN}},
	0x50: {"RQNN", []field{fNN}},
	0x51: {"NNREL", []field{fNN}},
	0x52: {"NNACK", []field{fNN}},
	0x53: {"NNLRN", []field{fNN}},
	0x54: {"NNULN", []field{fNN}},
	0x55: {"NNCLR", []field{fNN}},
	0x56: {"NNEVN", []field{fNN}},
	0x57: {"NERD", []field{fNN}},
	0x58: {"RQEVN", []field{fNN}},
	0x59: {"WRACK", []field{fNN}},
	0x5A: {"RQDAT", []field{fNN}},
	0x5B: {"RQDDS", []field{fDN}},
	0x5C: {"BOOTM", []field{fNN}},
	0x5D: {"ENUM", []field{fNN}},
	0x5E: {"NNRST", []field{fNN}},
	0x5F: {"EXTC1", nil},
	0x60: {"DFUN", []field{fSession}},
	0x61: {"GLOC", nil},
	0x63: {"ERR", nil},
	0x6F: {"CMDERR", []field{fNN, fError}},
	0x70: {"EVNLF", []field{fNN}},
	0x71: {"NVRD", []field{fNN, fNV}},
	0x72: {"NENRD", []field{fNN, fIndex}},
	0x73: {"RQNPN", []field{fNN, fIndex}},
	0x74: {"NUMEV", []field{fNN}},
	0x75: {"CANID", []field{fNN, fCANID}},
	0x7F: {"EXTC2", nil},
	0x80: {"RDCC3", nil},
	0x82: {"WCVO", []field{fSession, fCV}},
	0x83: {"WCVB", []field{fSession, fCV}},
	0x84: {"QCVS", []field{fSession, fCV}},
	0x85: {"PCVS", []field{fSession, fCV}},
	0x90: {"ACON", []field{fNN, fEN}},
	0x91: {"ACOF", []field{fNN, fEN}},
	0x92: {"AREQ", []field{fNN, fEN}},
	0x93: {"ARON", []field{fNN, fEN}},
	0x94: {"AROF", []field{fNN, fEN}},
	0x95: {"EVULN", []field{fNN, fEN}},
	0x96: {"NVSET", []field{fNN, fNV}},
	0x97: {"NVANS", []field{fNN, fNV}},
	0x98: {"ASON", []field{fNN, fDN}},
	0x99: {"ASOF", []field{fNN, fDN}},
	0x9A: {"ASRQ", []field{fNN, fDN}},
	0x9B: {"PARAN", []field{fNN, fIndex}},
	0x9C: {"REVAL", []field{fNN, fIndex}},
	0x9D: {"ARSON", []field{fNN, fDN}},
	0x9E: {"ARSOF", []field{fNN, fDN}},
	0x9F: {"EXTC3", nil},
	0xA0: {"RDCC4", nil},
	0xA2: {"WCVS", []field{fSession, fCV}},
	0xB0: {"ACON1", []field{fNN, fEN}},
	0xB1: {"ACOF1", []field{fNN, fEN}},
	0xB2: {"REQEV", []field{fNN, fEN, fEV}},
	0xB3: {"ARON1", []field{fNN, fEN}},
	0xB4: {"AROF1", []field{fNN, fEN}},
	0xB5: {"NEVAL", []field{fNN, fIndex, fEV}},
	0xB6: {"PNN", []field{fNN}},
	0xB8: {"ASON1", []field{fNN, fDN}},
	0xB9: {"ASOF1", []field{fNN, fDN}},
	0xBD: {"ARSON1", []field{fNN, fDN}},
	0xBE: {"ARSOF1", []field{fNN, fDN}},
	0xBF: {"EXTC4", nil},
	0xC0: {"RDCC5", nil},
	0xC1: {"WCVOA", []field{fSession, fCV}},
	0xCF: {"FCLK", nil},
	0xD0: {"ACON2", []field{fNN, fEN}},
	0xD1: {"ACOF2", []field{fNN, fEN}},
	0xD2: {"EVLRN", []field{fNN, fEN, fIndex, fEV}},
	0xD3: {"EVANS", []field{fNN, fEN, fIndex, fEV}},
	0xD4: {"ARON2", []field{fNN, fEN}},
	0xD5: {"AROF2", []field{fNN, fEN}},
	0xD8: {"ASON2", []field{fNN, fDN}},
	0xD9: {"ASOF2", []field{fNN, fDN}},
	0xDD: {"ARSON2", []field{fNN, fDN}},
	0xDE: {"ARSOF2", []field{fNN, fDN}},
	0xDF: {"EXTC5", nil},
	0xE0: {"RDCC6", nil},
	0xE1: {"PLOC", []field{fSession}},
	0xE2: {"NAME", nil},
	0xE3: {"STAT", []field{fNN}},
	0xEF: {"PARAMS", nil},
	0xF0: {"ACON3", []field{fNN, fEN}},
	0xF1: {"ACOF3", []field{fNN, fEN}},
	0xF2: {"ENRSP", []field{fNN}},
	0xF3: {"ARON3", []field{fNN, fEN}},
	0xF4: {"AROF3", []field{fNN, fEN}},
	0xF5: {"EVLRNI", []field{fNN, fEN, fIndex}},
	0xF6: {"ACDAT", []field{fNN}},
	0xF7: {"ARDAT", []field{fNN}},
	0xF8: {"ASON3", []field{fNN, fDN}},
	0xF9: {"ASOF3", []field{fNN, fDN}},
	0xFA: {"DDES", []field{fDN}},
	0xFB: {"DDRS", []field{fDN}},
	0xFD: {"ARSON3", []field{fNN, fDN}},
	0xFE: {"ARSOF3", []field{fNN, fDN}},
	0xFF: {"EXTC6", nil},
}
