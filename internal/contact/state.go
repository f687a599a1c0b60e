package contact

// State is a point-in-time copy of a controller's form.
type State struct {
	Name          string
	Message       string
	Selected      []Channel
	Contacts      map[Channel]string
	Status        Status
	StatusMessage string
}

func (s State) IsSelected(ch Channel) bool {
	for _, sel := range s.Selected {
		if sel == ch {
			return true
		}
	}
	return false
}

func (s State) ContactFor(ch Channel) string { return s.Contacts[ch] }

// Busy reports whether a submission is waiting on the network.
func (s State) Busy() bool { return s.Status == StatusLoading }

// ShowStatus reports whether a status line should be displayed.
func (s State) ShowStatus() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}
