package library

// DefaultText is offered as the user's lesson text until they store their own.
const DefaultText = `=== Pozdravy
ahoj = hello
dobré ráno = good *morning*
dobrý večer = good *evening*
dobrý deň [doobeda] = good morning
dobrý deň [poobede] = good evening [from noon]

=== Rodina
rodina = family
mama = mother
otec = father
`
