package model

import "github.com/bloops-games/sketchy/internal/category"

type entry struct {
	text       string
	difficulty Difficulty
}

var defaults = map[category.Category][]entry{
	category.Actions: {
		{"Saltar", Easy}, {"Correr", Easy}, {"Bailar", Easy}, {"Nadar", Easy}, {"Dormir", Easy},
		{"Cocinar", Easy}, {"Leer", Easy}, {"Escribir", Easy}, {"Dibujar", Easy}, {"Cantar", Easy},
		{"Trepar", Medium}, {"Esquiar", Medium}, {"Bucear", Medium}, {"Escalar", Medium}, {"Meditar", Medium},
		{"Aplaudir", Easy}, {"Silbar", Easy}, {"Bostezar", Easy}, {"Estornudar", Medium}, {"Tropezar", Medium},
		{"Abrazar", Easy}, {"Besar", Easy},
	},
	category.Objects: {
		{"Mesa", Easy}, {"Silla", Easy}, {"Computadora", Medium}, {"Teléfono", Easy}, {"Libro", Easy},
		{"Lápiz", Easy}, {"Reloj", Easy}, {"Zapato", Easy}, {"Guitarra", Medium}, {"Piano", Medium},
		{"Bicicleta", Medium}, {"Auto", Easy}, {"Avión", Medium}, {"Pelota", Easy}, {"Paraguas", Medium},
		{"Llave", Easy}, {"Espejo", Easy}, {"Vela", Easy}, {"Martillo", Medium}, {"Cuchillo", Easy},
		{"Tijera", Easy}, {"Campana", Medium},
	},
	category.Sayings: {
		{"No hay mal que por bien no venga", Medium},
		{"A caballo regalado no se le miran los dientes", Hard},
		{"Más vale tarde que nunca", Medium},
		{"Al que madruga Dios lo ayuda", Medium},
		{"Camarón que se duerme se lo lleva la corriente", Hard},
		{"Del dicho al hecho hay mucho trecho", Hard},
		{"En casa de herrero cuchillo de palo", Hard},
		{"Dime con quién andas y te diré quién eres", Medium},
		{"El que busca encuentra", Easy},
		{"No por mucho madrugar amanece más temprano", Hard},
		{"Quien mucho abarca poco aprieta", Medium},
		{"A mal tiempo buena cara", Medium},
		{"Más vale pájaro en mano que cien volando", Hard},
		{"El que ríe último ríe mejor", Medium},
		{"Ojos que no ven corazón que no siente", Hard},
		{"A palabras necias oídos sordos", Hard},
		{"Perro que ladra no muerde", Medium},
		{"El que siembra vientos cosecha tempestades", Hard},
		{"Después de la tormenta viene la calma", Medium},
		{"No dejes para mañana lo que puedas hacer hoy", Medium},
	},
	category.Customs: {
		{"Mate", Easy}, {"Asado", Easy}, {"Tango", Easy}, {"Empanada", Easy}, {"Fútbol", Easy},
		{"Dulce de leche", Medium}, {"Parrilla", Easy}, {"Gaucho", Medium}, {"Boleadoras", Hard}, {"Locro", Medium},
		{"Choripán", Easy}, {"Alfajor", Easy}, {"Chimichurri", Medium}, {"Milonga", Medium}, {"Payada", Hard},
		{"Peña", Medium}, {"Folklore", Medium}, {"Bombacha de campo", Hard}, {"Truco", Easy}, {"Siesta", Easy},
		{"Chamigo", Medium}, {"Che", Easy},
	},
}

// Defaults is the starter word bank used by seed-words.
func Defaults() []Word {
	var words []Word
	for _, c := range category.All() {
		for _, e := range defaults[c] {
			words = append(words, NewWord(c, e.text, e.difficulty))
		}
	}

	return words
}
