package domain

import "strings"

// Genre es uno de los géneros fijos que acepta el generador.
type Genre string

const (
	GenreFantasy           Genre = "Fantasy"
	GenreScienceFiction    Genre = "Science Fiction"
	GenreMystery           Genre = "Mystery"
	GenreRomance           Genre = "Romance"
	GenreHorror            Genre = "Horror"
	GenreAdventure         Genre = "Adventure"
	GenreHistoricalFiction Genre = "Historical Fiction"
	GenreComedy            Genre = "Comedy"
)

// DefaultGenre es el primer valor del selector.
const DefaultGenre = GenreFantasy

// Genres lista los géneros en el orden en que se muestran.
var Genres = []Genre{
	GenreFantasy,
	GenreScienceFiction,
	GenreMystery,
	GenreRomance,
	GenreHorror,
	GenreAdventure,
	GenreHistoricalFiction,
	GenreComedy,
}

// ParseGenre resuelve un valor recibido. Vacío devuelve DefaultGenre.
func ParseGenre(raw string) (Genre, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultGenre, true
	}
	for _, g := range Genres {
		if string(g) == raw {
			return g, true
		}
	}
	return "", false
}

func (g Genre) String() string {
	return string(g)
}
