package usecase

import "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"

// ViewState is what the page renders for the current session.
type ViewState struct {
	LoggedIn             bool            `json:"loggedIn"`
	HeaderLabel          string          `json:"headerLabel"`
	ShowRegistrationForm bool            `json:"showRegistrationForm"`
	ShowAuthWarning      bool            `json:"showAuthWarning"`
	Session              *domain.Session `json:"session"`
}

func View(s *domain.Session) ViewState {
	loggedIn := s != nil
	return ViewState{
		LoggedIn:             loggedIn,
		HeaderLabel:          s.Label(),
		ShowRegistrationForm: loggedIn,
		ShowAuthWarning:      !loggedIn,
		Session:              s,
	}
}
