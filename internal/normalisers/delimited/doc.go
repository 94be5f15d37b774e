// Package delimited provides a Tokenizer for the quoted, comma separated
// export. The export is written in the Thai national 8-bit encoding by
// default; other encodings are tried in configured order until one decodes
// without replacement characters.
package delimited
