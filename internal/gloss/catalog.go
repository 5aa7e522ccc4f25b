package gloss

// Example pairs a gloss the recogniser understands with its English reading
type Example struct {
	Gloss   string
	English string
}

// RecognizedSigns lists the signs the video recogniser is trained on
func RecognizedSigns() []string {
	return []string{
		"Bye", "Call", "Danger", "Eat", "Feeling", "Fever", "Have", "Hello",
		"Help", "I", "Name", "Not", "Please", "Sleep", "Thirsty", "Toilet",
		"Want", "What", "You", "Your",
	}
}

// ExampleSentences lists sign orders the recogniser turns into sentences
func ExampleSentences() []Example {
	return []Example{
		{"I fever have", "I have a fever"},
		{"Help Me Please", "Please help me"},
		{"You feeling what?", "What are you feeling?"},
		{"I toilet want", "I want to go to the toilet"},
		{"Your name what?", "What is your name?"},
		{"I want eat", "I want to eat"},
		{"I not eat", "I don't want to eat"},
		{"I thirsty", "I am thirsty"},
		{"I danger", "Please help, it's dangerous"},
		{"I sleep want", "I want to sleep"},
		{"Bye you", "Goodbye"},
		{"You danger", "Are you in danger?"},
	}
}
