/*
Package markov generates text from a character-level Markov model stored in a
frequency trie (see package trie).

A Generator walks the trie one character at a time: it looks up the trailing
context of recently emitted characters, makes a frequency-weighted choice
among the characters that followed that context in the source text, and
slides the context window forward. Generators are cheap; create one per
output stream and share the underlying trie freely.
*/
package markov
