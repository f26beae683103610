/*
Package config reads conversion configurations in the OpenCC JSON format
and enumerates the built-in configurations.

A configuration names an optional segmentation dictionary and a chain of
conversion steps, each backed by a dictionary or a group of dictionaries:

	{
	  "name": "Simplified Chinese to Traditional Chinese",
	  "segmentation": { "type": "mmseg", "dict": { "type": "ocd2", "file": "STPhrases.ocd2" } },
	  "conversion_chain": [ { "dict": { "type": "group", "dicts": [ ... ] } } ]
	}

Configurations are checked structurally by Validate. Dictionary files are
resolved and loaded by package opencc.
*/
package config
