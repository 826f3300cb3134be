package moderation

// Denylist is the built-in list of banned words and phrases, kept in sync
// with the client-side filter. Order matters: the scanner reports the first
// entry that matches. Phrase entries (containing a space) match by substring,
// single words by word boundary.
var Denylist = []string{
	"fake",

	// variações de "não usa foto real"
	"não usa foto real",
	"nao usa foto real",
	"não usa foto dele",
	"não usa foto dela",
	"nao usa foto dele",
	"nao usa foto dela",
	"não é foto real",
	"nao e foto real",
	"foto não é real",
	"foto nao e real",
	"não usa a foto real",
	"nao usa a foto real",
	"não usa suas fotos",
	"nao usa suas fotos",
	"não usa foto própria",
	"nao usa foto propria",

	// variações de "essa pessoa não é real"
	"essa pessoa não é real",
	"essa pessoa nao e real",
	"essa pessoa é fake",
	"essa pessoa e fake",
	"ele não é real",
	"ele nao e real",
	"ela não é real",
	"ela nao e real",
	"não é pessoa real",
	"nao e pessoa real",
	"pessoa fake",
	"perfil fake",
	"conta fake",
	"é fake",
	"e fake",
	"isso é fake",
	"isso e fake",

	// variações de "usa fotos de outra pessoa"
	"ele usa fotos de outra pessoa",
	"ele usa foto de outra pessoa",
	"ela usa fotos de outra pessoa",
	"ela usa foto de outra pessoa",
	"usa foto de outro",
	"usa foto de outra",
	"usa fotos de outro",
	"usa fotos de outra",
	"usa foto alheia",
	"usa fotos alheias",
	"essa foto não é dela",
	"essa foto não é dele",
	"roubou foto",
	"roubou fotos",
	"foto roubada",
	"fotos roubadas",
	"pegou foto de outro",
	"pegou foto de outra",
	"pegou fotos de outro",
	"pegou fotos de outra",
	"copiou foto",
	"copiou fotos",
	"foto de terceiro",
	"fotos de terceiro",
	"não é ele na foto",
	"nao e ele na foto",
	"não é ela na foto",
	"nao e ela na foto",
	"foto não é dele",
	"foto nao e dele",
	"foto não é dela",
	"foto nao e dela",
	"fotos não são dele",
	"fotos nao sao dele",
	"fotos não são dela",
	"fotos nao sao dela",

	// variações com gírias/abreviações
	"usa ft de outro",
	"usa ft de outra",
	"ft fake",
	"foto fake",
	"fotos fake",
	"perfil falso",
	"conta falsa",
	"não é verdadeiro",
	"nao e verdadeiro",
	"não é verdadeira",
	"nao e verdadeira",
	"mentiroso",
	"mentirosa",
	"enganador",
	"enganadora",
	"catfish",

	// outras palavras proibidas
	"pedofilia",
	"pedofilo",
	"pedófilo",
	"droga",
	"trafico",
	"tráfico",
	"hack",
	"hacker",
	"cracker",
	"terrorismo",
	"terrorista",
	"golpe",
	"fraude",
	"cp",
	"scam",
	"phishing",
	"estupro",
	"assassinato",
	"suicidio",
	"suicídio",
}
