/*
Package trie implements the frequency trie behind the character-level Markov
model. Every overlapping run of order+1 characters of a source text (read as
if the text were circular) is inserted into the tree, and each node counts how
often the path leading to it was seen.

A Trie is built once with Build and is read-only afterwards, so any number of
goroutines may call Lookup, Walk and Stats on it without locking.
*/
package trie
