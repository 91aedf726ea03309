package holderprobe

var _ HolderProbe = (*HolderProbeMock)(nil)

type HolderProbeMock struct {
	HoldingPids map[int]bool
	ProbedPids  []int
}

func NewHolderProbeMock(holdingPids ...int) *HolderProbeMock {
	m := &HolderProbeMock{HoldingPids: make(map[int]bool)}
	for _, pid := range holdingPids {
		m.HoldingPids[pid] = true
	}
	return m
}

func (m *HolderProbeMock) Holds(pid int, _ string) bool {
	m.ProbedPids = append(m.ProbedPids, pid)
	return m.HoldingPids[pid]
}
