// Package render provides the renderers turning a navigation tree into markup.
package render
