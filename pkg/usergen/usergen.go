// Package usergen 随机用户与地址草稿
//
// 生成的草稿与外部输入一样交给装配器校验，用于填充测试库和压测校验规则。
// 号码按乌克兰与波罗的海三国的运营商前缀生成，保证可以通过电话号码规则。
package usergen

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"katydid-vehicle-market/pkg/assembler"
	"katydid-vehicle-market/pkg/validator"
)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CountryCodes 生成号码使用的国家码
var CountryCodes = []string{"+380", "+372", "+371", "+370"}

// EmailDomains 生成邮箱使用的域名
var EmailDomains = []string{"gmail.com", "yahoo.com"}

// 乌克兰按运营商区分前缀（Vodafone、Kyivstar、lifecell），不含国内长途前缀 0
var uaCarriers = [][]string{
	{"50", "66", "95", "99"},
	{"67", "68", "96", "97", "98"},
	{"63", "73", "93"},
}

// 爱沙尼亚 5x 与 81-84 两类移动号段
var eePrefixes = []string{"5", "81", "82", "83", "84"}

var (
	firstNames = []string{
		"Olena", "Taras", "Mykola", "Iryna", "Andrii", "Kadri", "Marten", "Liis",
		"Janis", "Ilze", "Rasa", "Tomas", "Egle", "Jade", "Oliver", "Amelia",
	}
	lastNames = []string{
		"Shevchenko", "Kovalenko", "Tamm", "Saar", "Berzins", "Ozols",
		"Kazlauskas", "Petrauskas", "Smith", "Taylor",
	}
	streets = []string{"Main", "Liberty", "Gedimino", "Brivibas", "Parnu", "Khreshchatyk", "Harbour"}
	cities  = map[string][]string{
		"Ukraine":   {"Kyiv", "Lviv", "Odesa", "Kharkiv"},
		"Estonia":   {"Tallinn", "Tartu", "Narva"},
		"Latvia":    {"Riga", "Daugavpils", "Liepaja"},
		"Lithuania": {"Vilnius", "Kaunas", "Klaipeda"},
	}
	countryByCode = map[string]string{
		"+380": "Ukraine",
		"+372": "Estonia",
		"+371": "Latvia",
		"+370": "Lithuania",
	}
)

// Generator 随机草稿生成器，不能并发使用
type Generator struct {
	rnd *rand.Rand
}

// New 创建生成器，rnd 为 nil 时按当前时间播种
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// NewSeeded 固定种子，便于复现
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

func (g *Generator) pick(items []string) string {
	return items[g.rnd.Intn(len(items))]
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.rnd.Intn(10)))
	}
	return b.String()
}

func (g *Generator) alnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alnum[g.rnd.Intn(len(alnum))]
	}
	return string(b)
}

// Name 随机名字
func (g *Generator) Name() string {
	return g.pick(firstNames)
}

// Username 名字加随机字母数字后缀，总长 [6,19]
func (g *Generator) Username(name string) string {
	lo := 6 - len(name)
	if lo < 1 {
		lo = 1
	}
	hi := 19 - len(name)
	if hi < lo {
		return name[:19-lo] + g.alnum(lo)
	}
	return name + g.alnum(lo+g.rnd.Intn(hi-lo+1))
}

// Email 10 位随机本地部分加常见邮箱域名
func (g *Generator) Email() string {
	return g.alnum(10) + "@" + g.pick(EmailDomains)
}

// Phone 随机国家码下的移动号码
func (g *Generator) Phone() string {
	return g.PhoneIn(g.pick(CountryCodes))
}

// PhoneIn 指定国家码下的移动号码，未知国家码按立陶宛格式生成
func (g *Generator) PhoneIn(countryCode string) string {
	switch countryCode {
	case "+380":
		prefix := g.pick(uaCarriers[g.rnd.Intn(len(uaCarriers))])
		return countryCode + prefix + g.digits(7)
	case "+372":
		prefix := g.pick(eePrefixes)
		if prefix == "5" {
			prefix += g.digits(1)
		}
		return countryCode + prefix + g.digits(6)
	case "+371":
		return countryCode + "2" + g.digits(7)
	default:
		return countryCode + "6" + g.digits(7)
	}
}

// Gender 随机性别
func (g *Generator) Gender() string {
	return g.pick(validator.Genders)
}

// User 随机用户草稿，号码与 Address 草稿的国家一致时请用 Pair
func (g *Generator) User() validator.Draft {
	return g.user(g.pick(CountryCodes))
}

func (g *Generator) user(countryCode string) validator.Draft {
	name := g.Name()
	draft := validator.Draft{
		assembler.FieldUsername:        g.Username(name),
		assembler.FieldFirstName:       name,
		assembler.FieldLastName:        g.pick(lastNames),
		assembler.FieldEmailAddress:    g.Email(),
		assembler.FieldMainPhoneNumber: g.PhoneIn(countryCode),
		assembler.FieldGender:          g.Gender(),
	}
	if g.rnd.Intn(4) == 0 {
		draft[assembler.FieldAdditionalPhoneNumber] = g.PhoneIn(countryCode)
	}
	return draft
}

// Address 随机地址草稿
func (g *Generator) Address() validator.Draft {
	return g.address(countryByCode[g.pick(CountryCodes)])
}

func (g *Generator) address(country string) validator.Draft {
	draft := validator.Draft{
		assembler.FieldStreetAddress: strconv.Itoa(1+g.rnd.Intn(300)) + " " + g.pick(streets) + " St",
		assembler.FieldCity:          g.pick(cities[country]),
		assembler.FieldCountry:       country,
		assembler.FieldZipCode:       g.digits(5),
	}
	if g.rnd.Intn(2) == 0 {
		draft[assembler.FieldState] = country + " County"
	}
	return draft
}

// Pair 同一国家的用户与地址草稿
func (g *Generator) Pair() (user, address validator.Draft) {
	code := g.pick(CountryCodes)
	return g.user(code), g.address(countryByCode[code])
}

// mutation 对草稿中一个字段做破坏性修改
type mutation struct {
	field  string
	mutate func(g *Generator, v string) string
}

var userMutations = []mutation{
	{assembler.FieldUsername, func(_ *Generator, v string) string { return v[:2] }},
	{assembler.FieldUsername, func(_ *Generator, v string) string { return v + "!" }},
	{assembler.FieldFirstName, func(g *Generator, v string) string { return v + g.digits(1) }},
	{assembler.FieldEmailAddress, func(_ *Generator, v string) string { return strings.Replace(v, "@", "", 1) }},
	{assembler.FieldMainPhoneNumber, func(_ *Generator, v string) string { return "0" + strings.TrimPrefix(v, "+") }},
	{assembler.FieldGender, func(_ *Generator, v string) string { return strings.ToUpper(v) }},
}

// Corrupt 随机破坏用户草稿的一个字段，返回被修改的字段名
func (g *Generator) Corrupt(draft validator.Draft) string {
	m := userMutations[g.rnd.Intn(len(userMutations))]
	v, _ := draft[m.field].(string)
	draft[m.field] = m.mutate(g, v)
	return m.field
}
