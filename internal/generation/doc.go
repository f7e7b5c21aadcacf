// Package generation defines the boundary to language-model services that
// extract question/answer pairs from unstructured text.
package generation
