package invalid

var broken int = "not an int"
