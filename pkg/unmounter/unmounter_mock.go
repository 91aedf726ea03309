package unmounter

var _ Unmounter = (*UnmounterMock)(nil)

type UnmounterMock struct {
	Unmounted []string
	Err       error
}

func NewUnmounterMock() *UnmounterMock {
	return &UnmounterMock{}
}

func (m *UnmounterMock) Unmount(mountPoint string) error {
	m.Unmounted = append(m.Unmounted, mountPoint)
	return m.Err
}
