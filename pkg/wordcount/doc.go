/*
Package wordcount is the reference host for the stateworks engine: it counts
words by feeding one event per character into a three-state VFSM.

	init --always--> out_word
	out_word --read_alphanumeric / increment_counter--> in_word
	in_word --read_other--> out_word

Classifying characters and incrementing the counter live here, outside the
engine; the engine only sees event tags and action tokens.
*/
package wordcount
