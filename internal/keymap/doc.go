/*
Package keymap resolves key chords to qualified action names per UI context.

Bindings live in two layers: built-in defaults and an optional user keymap
file (~/.nbtree/keymap.json). The user file is JSON, shaped as context ->
chord -> qualified action name:

	{
	  "version": "1",
	  "contexts": {
	    "global": {
	      "ctrl+c": "nbtree.quit"
	    },
	    "list": {
	      "j": "nbtree.select-next-row",
	      "ctrl+d": "nbtree.scroll-preview-down"
	    }
	  }
	}

Matching checks the specific context first, then falls back to "global".
Multi-key sequences are supported for the 'g' prefix ("gg" jumps to the
first row). The keymap stores action names only; whether a name is actually
registered is the action registry's concern, checked by the Validator and
at load time.
*/
package keymap
