package truth

import "strconv"

// StatusFlags is the 15-bit generator status mask of a pruned gen particle.
type StatusFlags uint16

// Status bits, in mask order.
const (
	IsPrompt StatusFlags = 1 << iota
	IsDecayedLeptonHadron
	IsTauDecayProduct
	IsPromptTauDecayProduct
	IsDirectTauDecayProduct
	IsDirectPromptTauDecayProduct
	IsDirectHadronDecayProduct
	IsHardProcess
	FromHardProcess
	IsHardProcessTauDecayProduct
	IsDirectHardProcessTauDecayProduct
	FromHardProcessBeforeFSR
	IsFirstCopy
	IsLastCopy
	IsLastCopyBeforeFSR
)

const nStatusBits = 15

func (f StatusFlags) Has(bit StatusFlags) bool {
	return f&bit == bit
}

// String renders the mask most significant bit first, like std::bitset.
func (f StatusFlags) String() string {
	s := strconv.FormatUint(uint64(f&(1<<nStatusBits-1)), 2)
	for len(s) < nStatusBits {
		s = "0" + s
	}
	return s
}

// radiates reports whether a hard-process leg may have lost momentum to FSR:
// it descends from the hard process without being part of it.
func (f StatusFlags) radiates() bool {
	return f.Has(FromHardProcess) && !f.Has(IsHardProcess)
}
