// Package utils provides small numeric helpers shared by the search engines.
package utils
