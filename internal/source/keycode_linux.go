//go:build linux

package source

// Linux input event key codes, from input-event-codes.h.
// Left and right variants of a modifier map to the same canonical name.
var keyCodeNames = map[uint16]string{
	1:   "escape",
	2:   "1",
	3:   "2",
	4:   "3",
	5:   "4",
	6:   "5",
	7:   "6",
	8:   "7",
	9:   "8",
	10:  "9",
	11:  "0",
	12:  "-",
	13:  "=",
	14:  "backspace",
	15:  "tab",
	16:  "q",
	17:  "w",
	18:  "e",
	19:  "r",
	20:  "t",
	21:  "y",
	22:  "u",
	23:  "i",
	24:  "o",
	25:  "p",
	26:  "[",
	27:  "]",
	28:  "enter",
	29:  "control", // left ctrl
	30:  "a",
	31:  "s",
	32:  "d",
	33:  "f",
	34:  "g",
	35:  "h",
	36:  "j",
	37:  "k",
	38:  "l",
	39:  ";",
	40:  "'",
	41:  "`",
	42:  "shift", // left shift
	43:  "\\",
	44:  "z",
	45:  "x",
	46:  "c",
	47:  "v",
	48:  "b",
	49:  "n",
	50:  "m",
	51:  ",",
	52:  ".",
	53:  "/",
	54:  "shift", // right shift
	55:  "*",
	56:  "alt", // left alt
	57:  "space",
	58:  "capslock",
	59:  "f1",
	60:  "f2",
	61:  "f3",
	62:  "f4",
	63:  "f5",
	64:  "f6",
	65:  "f7",
	66:  "f8",
	67:  "f9",
	68:  "f10",
	87:  "f11",
	88:  "f12",
	96:  "enter",   // keypad enter
	97:  "control", // right ctrl
	98:  "/",       // keypad slash
	100: "alt",     // right alt
	102: "home",
	103: "up",
	104: "pageup",
	105: "left",
	106: "right",
	107: "end",
	108: "down",
	109: "pagedown",
	110: "insert",
	111: "delete",
	119: "pause",
	125: "meta", // left meta
	126: "meta", // right meta
	127: "menu",
}

// keyCodeName returns the canonical name for a Linux key code.
func keyCodeName(code uint16) (string, bool) {
	name, ok := keyCodeNames[code]
	return name, ok
}
