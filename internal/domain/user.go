package domain

// Profile enumerates access profiles.
type Profile string

const (
	ProfileGlobalAdmin Profile = "ADMIN_GERAL"
	ProfileClientAdmin Profile = "ADMIN_CLIENTE"
	ProfileAgent       Profile = "AGENTE"
	ProfileRequester   Profile = "SOLICITANTE"
)

// User is a directory entry. There are no credentials: authentication is
// an active-email lookup.
type User struct {
	ID            int64   `json:"id"`
	Name          string  `json:"nome"`
	Email         string  `json:"email"`
	Profile       Profile `json:"perfil"`
	LinkedClients []int64 `json:"clientesVinculados"`
	Active        bool    `json:"ativo"`
}

// CanAccessClient reports whether the user may operate on the given
// client. Global admins see every client; everyone else is limited to
// their linked ones.
func (u User) CanAccessClient(clientID int64) bool {
	if u.Profile == ProfileGlobalAdmin {
		return true
	}
	for _, id := range u.LinkedClients {
		if id == clientID {
			return true
		}
	}
	return false
}
