package domain

import (
	"strings"
	"time"
)

// View es el estado transitorio de una vista de página.
type View struct {
	ID        string       `json:"id"`
	Keywords  string       `json:"keywords"`
	Genre     Genre        `json:"genre"`
	Story     string       `json:"story"`
	State     RequestState `json:"state"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewView crea una vista vacía con el género por defecto.
func NewView(id string) View {
	return View{
		ID:        id,
		Genre:     DefaultGenre,
		State:     Idle(),
		UpdatedAt: time.Now().UTC(),
	}
}

// WithInput guarda las entradas del formulario sin cambiar el estado.
func (v View) WithInput(keywords string, genre Genre) View {
	v.Keywords = keywords
	v.Genre = genre
	return v
}

// Begin pasa la vista a en curso y limpia cualquier error previo.
// Quien llama garantiza que no haya otra solicitud en curso.
func (v View) Begin() View {
	v.State = InFlight()
	v.UpdatedAt = time.Now().UTC()
	return v
}

// Succeed reemplaza la historia actual.
func (v View) Succeed(story string) View {
	v.Story = story
	v.State = Succeeded()
	v.UpdatedAt = time.Now().UTC()
	return v
}

// Fail deja la historia intacta y guarda el mensaje visible.
func (v View) Fail(message string) View {
	v.State = Failed(message)
	v.UpdatedAt = time.Now().UTC()
	return v
}

// Paragraphs separa la historia por líneas; cada línea es un bloque.
func Paragraphs(story string) []string {
	if story == "" {
		return nil
	}
	return strings.Split(story, "\n")
}
