// Package process kills browser process trees left behind by PDF export.
package process
