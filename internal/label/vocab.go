package label

// PhoneLabel classifies a phone number.
type PhoneLabel string

const (
	PhoneAssistant   PhoneLabel = "assistant"
	PhoneCallback    PhoneLabel = "callback"
	PhoneCar         PhoneLabel = "car"
	PhoneCompanyMain PhoneLabel = "companyMain"
	PhoneFaxHome     PhoneLabel = "faxHome"
	PhoneFaxOther    PhoneLabel = "faxOther"
	PhoneFaxWork     PhoneLabel = "faxWork"
	PhoneHome        PhoneLabel = "home"
	PhoneISDN        PhoneLabel = "isdn"
	PhoneMain        PhoneLabel = "main"
	PhoneMMS         PhoneLabel = "mms"
	PhoneMobile      PhoneLabel = "mobile"
	PhoneOther       PhoneLabel = "other"
	PhonePager       PhoneLabel = "pager"
	PhoneRadio       PhoneLabel = "radio"
	PhoneTelex       PhoneLabel = "telex"
	PhoneTTYTDD      PhoneLabel = "ttyTdd"
	PhoneWork        PhoneLabel = "work"
	PhoneWorkMobile  PhoneLabel = "workMobile"
	PhoneWorkPager   PhoneLabel = "workPager"
	PhoneCustom      PhoneLabel = "custom"
)

// EmailLabel classifies an email address.
type EmailLabel string

const (
	EmailHome   EmailLabel = "home"
	EmailMobile EmailLabel = "mobile"
	EmailOther  EmailLabel = "other"
	EmailWork   EmailLabel = "work"
	EmailCustom EmailLabel = "custom"
)

// AddressLabel classifies a postal address.
type AddressLabel string

const (
	AddressHome   AddressLabel = "home"
	AddressOther  AddressLabel = "other"
	AddressWork   AddressLabel = "work"
	AddressCustom AddressLabel = "custom"
)

// WebsiteLabel classifies a website URL.
type WebsiteLabel string

const (
	WebsiteBlog     WebsiteLabel = "blog"
	WebsiteFTP      WebsiteLabel = "ftp"
	WebsiteHome     WebsiteLabel = "home"
	WebsiteHomepage WebsiteLabel = "homepage"
	WebsiteOther    WebsiteLabel = "other"
	WebsiteProfile  WebsiteLabel = "profile"
	WebsiteWork     WebsiteLabel = "work"
	WebsiteCustom   WebsiteLabel = "custom"
)

// SocialMediaLabel classifies a social/IM handle.
type SocialMediaLabel string

const (
	SocialAIM        SocialMediaLabel = "aim"
	SocialGoogleTalk SocialMediaLabel = "googleTalk"
	SocialICQ        SocialMediaLabel = "icq"
	SocialJabber     SocialMediaLabel = "jabber"
	SocialMSN        SocialMediaLabel = "msn"
	SocialNetmeeting SocialMediaLabel = "netmeeting"
	SocialQQ         SocialMediaLabel = "qqchat"
	SocialSkype      SocialMediaLabel = "skype"
	SocialYahoo      SocialMediaLabel = "yahoo"
	SocialCustom     SocialMediaLabel = "custom"
)

// EventLabel classifies a dated event.
type EventLabel string

const (
	EventAnniversary EventLabel = "anniversary"
	EventBirthday    EventLabel = "birthday"
	EventOther       EventLabel = "other"
	EventCustom      EventLabel = "custom"
)

// RelationLabel classifies a related person.
type RelationLabel string

const (
	RelationAssistant       RelationLabel = "assistant"
	RelationBrother         RelationLabel = "brother"
	RelationChild           RelationLabel = "child"
	RelationDomesticPartner RelationLabel = "domesticPartner"
	RelationFather          RelationLabel = "father"
	RelationFriend          RelationLabel = "friend"
	RelationManager         RelationLabel = "manager"
	RelationMother          RelationLabel = "mother"
	RelationParent          RelationLabel = "parent"
	RelationPartner         RelationLabel = "partner"
	RelationReferredBy      RelationLabel = "referredBy"
	RelationRelative        RelationLabel = "relative"
	RelationSister          RelationLabel = "sister"
	RelationSpouse          RelationLabel = "spouse"
	RelationCustom          RelationLabel = "custom"
)

// Store enumeration tables. Tag 0 is the custom sentinel in every table;
// unrecognized tags decode to each codec's fallback value.
var (
	// Phones maps the store phone type enumeration.
	Phones = NewCodec(map[int]PhoneLabel{
		1:  PhoneHome,
		2:  PhoneMobile,
		3:  PhoneWork,
		4:  PhoneFaxWork,
		5:  PhoneFaxHome,
		6:  PhonePager,
		7:  PhoneOther,
		8:  PhoneCallback,
		9:  PhoneCar,
		10: PhoneCompanyMain,
		11: PhoneISDN,
		12: PhoneMain,
		13: PhoneFaxOther,
		14: PhoneRadio,
		15: PhoneTelex,
		16: PhoneTTYTDD,
		17: PhoneWorkMobile,
		18: PhoneWorkPager,
		19: PhoneAssistant,
		20: PhoneMMS,
	}, 0, PhoneCustom, PhoneMobile)

	// Emails maps the store email type enumeration.
	Emails = NewCodec(map[int]EmailLabel{
		1: EmailHome,
		2: EmailWork,
		3: EmailOther,
		4: EmailMobile,
	}, 0, EmailCustom, EmailHome)

	// Addresses maps the store postal address type enumeration.
	Addresses = NewCodec(map[int]AddressLabel{
		1: AddressHome,
		2: AddressWork,
		3: AddressOther,
	}, 0, AddressCustom, AddressHome)

	// Websites maps the store website type enumeration.
	Websites = NewCodec(map[int]WebsiteLabel{
		1: WebsiteHomepage,
		2: WebsiteBlog,
		3: WebsiteProfile,
		4: WebsiteHome,
		5: WebsiteWork,
		6: WebsiteFTP,
		7: WebsiteOther,
	}, 0, WebsiteCustom, WebsiteHomepage)

	// SocialMedias maps the store IM protocol enumeration.
	SocialMedias = NewCodec(map[int]SocialMediaLabel{
		1: SocialAIM,
		2: SocialMSN,
		3: SocialYahoo,
		4: SocialSkype,
		5: SocialQQ,
		6: SocialGoogleTalk,
		7: SocialICQ,
		8: SocialJabber,
		9: SocialNetmeeting,
	}, 0, SocialCustom, SocialAIM)

	// Events maps the store event type enumeration.
	Events = NewCodec(map[int]EventLabel{
		1: EventAnniversary,
		2: EventOther,
		3: EventBirthday,
	}, 0, EventCustom, EventBirthday)

	// Relations maps the store relation type enumeration.
	Relations = NewCodec(map[int]RelationLabel{
		1:  RelationAssistant,
		2:  RelationBrother,
		3:  RelationChild,
		4:  RelationDomesticPartner,
		5:  RelationFather,
		6:  RelationFriend,
		7:  RelationManager,
		8:  RelationMother,
		9:  RelationParent,
		10: RelationPartner,
		11: RelationReferredBy,
		12: RelationRelative,
		13: RelationSister,
		14: RelationSpouse,
	}, 0, RelationCustom, RelationRelative)
)
