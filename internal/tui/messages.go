package tui

type recordsChangedMsg struct {
	collection string
}

type initDoneMsg struct {
	err error
}

type loginDoneMsg struct {
	err error
}

type createDoneMsg struct {
	err error
}

type deleteDoneMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
