package auth

import (
	"math/rand"
	"strings"
)

// Challenge is one captcha question with its expected answer, already folded
// for comparison. A fresh challenge is issued on every login page render and
// stays valid until the next render overwrites it.
type Challenge struct {
	Question string
	Answer   string
}

// Fixed trivia set standing in for a real captcha.
var captchaQuestions = []Challenge{
	{Question: "Câte litere are cuvântul „soare”?", Answer: "5"},
	{Question: "Care este al doilea număr din șirul: 3, 9, 6?", Answer: "9"},
	{Question: "Scrie numele culorii: roșu", Answer: "roșu"},
	{Question: "Cât face 7 minus 3?", Answer: "4"},
	{Question: "Care e primul număr impar: 2, 4, 3?", Answer: "3"},
	{Question: "Ce culoare are frunza?", Answer: "verde"},
	{Question: "Scrie cuvântul invers: „eticudorp”", Answer: "productie"},
}

// NewChallenge picks one question uniformly at random.
func NewChallenge() Challenge {
	c := captchaQuestions[rand.Intn(len(captchaQuestions))]
	c.Answer = foldAnswer(c.Answer)
	return c
}

// MatchesChallenge compares a submitted answer against the expected one,
// ignoring case and surrounding whitespace.
func MatchesChallenge(expected, supplied string) bool {
	return foldAnswer(supplied) == foldAnswer(expected)
}

func foldAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
