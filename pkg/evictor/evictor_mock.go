package evictor

var _ HolderEvictor = (*HolderEvictorMock)(nil)

type EvictCall struct {
	MountPoint string
	Action     Action
}

type HolderEvictorMock struct {
	Calls []EvictCall
}

func NewHolderEvictorMock() *HolderEvictorMock {
	return &HolderEvictorMock{}
}

func (m *HolderEvictorMock) EvictHolders(mountPoint string, action Action) {
	m.Calls = append(m.Calls, EvictCall{MountPoint: mountPoint, Action: action})
}

func (m *HolderEvictorMock) Actions() []Action {
	actions := make([]Action, 0, len(m.Calls))
	for _, call := range m.Calls {
		actions = append(actions, call.Action)
	}
	return actions
}
