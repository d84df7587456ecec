package grammar

// emojiByName maps ":name:" shortcodes to their characters. The table
// covers the common names; unknown shortcodes render literally.
var emojiByName = map[string]rune{
	"smile":          '\U0001F604',
	"smiley":         '\U0001F603',
	"grin":           '\U0001F601',
	"laughing":       '\U0001F606',
	"joy":            '\U0001F602',
	"wink":           '\U0001F609',
	"blush":          '\U0001F60A',
	"heart_eyes":     '\U0001F60D',
	"thinking":       '\U0001F914',
	"neutral_face":   '\U0001F610',
	"expressionless": '\U0001F611',
	"unamused":       '\U0001F612',
	"sweat_smile":    '\U0001F605',
	"cry":            '\U0001F622',
	"sob":            '\U0001F62D',
	"angry":          '\U0001F620',
	"rage":           '\U0001F621',
	"scream":         '\U0001F631',
	"fearful":        '\U0001F628',
	"sleeping":       '\U0001F634',
	"dizzy_face":     '\U0001F635',
	"sunglasses":     '\U0001F60E',
	"smirk":          '\U0001F60F',
	"relieved":       '\U0001F60C',
	"thumbsup":       '\U0001F44D',
	"thumbsdown":     '\U0001F44E',
	"ok_hand":        '\U0001F44C',
	"clap":           '\U0001F44F',
	"wave":           '\U0001F44B',
	"muscle":         '\U0001F4AA',
	"pray":           '\U0001F64F',
	"point_right":    '\U0001F449',
	"point_left":     '\U0001F448',
	"heart":          '❤',
	"star":           '⭐',
	"sparkles":       '✨',
	"fire":           '\U0001F525',
	"boom":           '\U0001F4A5',
	"tada":           '\U0001F389',
	"rocket":         '\U0001F680',
	"bulb":           '\U0001F4A1',
	"warning":        '⚠',
	"check":          '✔',
	"x":              '❌',
	"question":       '❓',
	"exclamation":    '❗',
	"zap":            '⚡',
	"bug":            '\U0001F41B',
	"book":           '\U0001F4D6',
	"memo":           '\U0001F4DD',
	"pencil":         '✏',
	"lock":           '\U0001F512',
	"key":            '\U0001F511',
	"hourglass":      '⌛',
	"clock":          '\U0001F550',
	"calendar":       '\U0001F4C5',
	"email":          '✉',
	"phone":          '\U0001F4DE',
	"computer":       '\U0001F4BB',
	"coffee":         '☕',
	"pizza":          '\U0001F355',
	"beer":           '\U0001F37A',
	"sun":            '☀',
	"moon":           '\U0001F319',
	"cloud":          '☁',
	"umbrella":       '☂',
	"snowflake":      '❄',
	"dog":            '\U0001F436',
	"cat":            '\U0001F431',
	"snake":          '\U0001F40D',
	"turtle":         '\U0001F422',
	"penguin":        '\U0001F427',
}
