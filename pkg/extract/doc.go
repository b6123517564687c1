// Package extract turns raw text into normalized entities and relations
// with a language model.
//
// The model is asked for a fixed JSON schema. Replies that do not parse are
// first repaired locally and, failing that, sent back to the model with a
// correction prompt. Entity names are canonicalized by a shared
// normalize.Normalizer so mentions across chunks collapse onto one id.
package extract
