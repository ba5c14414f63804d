/*
Package corpus stores the source texts Markov models are built from, together
with a log of generation runs, in a SQLite database. It also finds and decodes
text files on disk, in UTF-8 or a legacy single-byte encoding.

Only text is stored. Frequency tries are cheap to rebuild and are never
persisted.
*/
package corpus
