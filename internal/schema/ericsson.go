package schema

import (
	"sync"

	"github.com/danmuck/cdrdecode/internal/primitive"
)

// Root tag numbers of the Ericsson MSC record types.
const (
	Transit               uint32 = 0
	MSOriginating         uint32 = 1
	RoamingCallForwarding uint32 = 2
	CallForwarding        uint32 = 3
	MSTerminating         uint32 = 4
	MSOriginatingSMSinMSC uint32 = 5
	MSTerminatingSMSinMSC uint32 = 7
)

var recordTypes = []RecordType{
	{Tag: Transit, Name: "transit", Layout: true},
	{Tag: MSOriginating, Name: "mSOriginating", Layout: true},
	// Seen in older switch releases; the layout is not documented.
	{Tag: RoamingCallForwarding, Name: "roamingCallForwarding"},
	{Tag: CallForwarding, Name: "callForwarding", Layout: true},
	{Tag: MSTerminating, Name: "mSTerminating", Layout: true},
	{Tag: MSOriginatingSMSinMSC, Name: "mSOriginatingSMSinMSC", Layout: true},
	{Tag: MSTerminatingSMSinMSC, Name: "mSTerminatingSMSinMSC", Layout: true},
}

type entry struct {
	path Path
	rule Rule
}

func octets(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindOctetString, Params: primitive.Params{Size: size}}
}

func digits(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindDigitString, Params: primitive.Params{Size: size}}
}

func tbcd(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindTBCD, Params: primitive.Params{Size: size}}
}

func address(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindAddress, Params: primitive.Params{Size: size}}
}

func enum(name string, table primitive.EnumTable) Rule {
	return Rule{Name: name, Kind: primitive.KindByteEnum, Params: primitive.Params{Enum: table}}
}

func ia5(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindIA5, Params: primitive.Params{Size: size}}
}

func integer(name string, size primitive.Size) Rule {
	return Rule{Name: name, Kind: primitive.KindInteger, Params: primitive.Params{Size: size}}
}

func date(name string) Rule  { return Rule{Name: name, Kind: primitive.KindDate} }
func clock(name string) Rule { return Rule{Name: name, Kind: primitive.KindTime} }
func geo(name string) Rule   { return Rule{Name: name, Kind: primitive.KindGeo} }

// Fields shared by the call records.
var callCommon = []entry{
	{P(1), integer("callIdentificationNumber", primitive.Between(1, 3))},
	{P(2), ia5("exchangeIdentity", primitive.Between(1, 15))},
	{P(3), address("mSCIdentification", primitive.Between(1, 9))},
	{P(4), date("dateForStartOfCharge")},
	{P(5), clock("timeForStartOfCharge")},
	{P(6), clock("timeForStopOfCharge")},
	{P(7), clock("chargeableDuration")},
	{P(8), clock("interruptionTime")},
	{P(9), integer("recordSequenceNumber", primitive.Between(1, 3))},
	{P(10), octets("networkCallReference", primitive.Between(5, 8))},
	{P(11), enum("disconnectingParty", DisconnectingParty)},
	{P(12), enum("chargedParty", ChargedParty)},
	{P(13), enum("callPosition", CallPosition)},
	{P(14), digits("originForCharging", primitive.Between(1, 2))},
	{P(15), integer("tariffClass", primitive.Between(1, 2))},
	{P(16), enum("tariffSwitchInd", TariffSwitchInd)},
	{P(17), ia5("outgoingRoute", primitive.Between(1, 7))},
	{P(18), ia5("incomingRoute", primitive.Between(1, 7))},
	{P(19), octets("internalCauseAndLoc", primitive.Exact(3))},
}

// Fields shared by the SMS records.
var smsCommon = []entry{
	{P(1), integer("callIdentificationNumber", primitive.Between(1, 3))},
	{P(2), ia5("exchangeIdentity", primitive.Between(1, 15))},
	{P(3), address("mSCIdentification", primitive.Between(1, 9))},
	{P(4), date("dateForStartOfCharge")},
	{P(5), clock("timeForStartOfCharge")},
	{P(9), integer("recordSequenceNumber", primitive.Between(1, 3))},
	{P(12), enum("chargedParty", ChargedParty)},
	{P(14), digits("originForCharging", primitive.Between(1, 2))},
}

// CAMEL service data: [34] { serviceKey [0], gsmSCFAddress [1] }.
var camel = []entry{
	{P(34, 0), integer("serviceKey", primitive.Between(1, 4))},
	{P(34, 1), address("gsmSCFAddress", primitive.Between(1, 9))},
}

var layouts = map[uint32][][]entry{
	Transit: {callCommon, {
		{P(20), address("callingPartyNumber", primitive.Between(1, 12))},
		{P(21), address("calledPartyNumber", primitive.Between(1, 12))},
		{P(22), address("originalCalledNumber", primitive.Between(1, 12))},
		{P(23), address("redirectingNumber", primitive.Between(1, 12))},
		{P(24), address("translatedNumber", primitive.Between(1, 12))},
		{P(25), enum("typeOfSignalling", TypeOfSignalling)},
		{P(26), enum("bearerServiceCode", BearerServiceCode)},
		{P(27), enum("teleServiceCode", TeleServiceCode)},
		{P(28), tbcd("originatedCode", primitive.Between(1, 4))},
	}},
	MSOriginating: {callCommon, camel, {
		{P(20), address("callingPartyNumber", primitive.Between(1, 12))},
		{P(21), address("calledPartyNumber", primitive.Between(1, 12))},
		{P(22), tbcd("callingSubscriberIMSI", primitive.Between(3, 8))},
		{P(23), tbcd("callingSubscriberIMEI", primitive.Exact(8))},
		{P(24), geo("firstCallingLocationInformation")},
		{P(25), geo("lastCallingLocationInformation")},
		{P(26), enum("teleServiceCode", TeleServiceCode)},
		{P(27), enum("bearerServiceCode", BearerServiceCode)},
		{P(28), enum("typeOfCallingSubscriber", TypeOfCallingSubscriber)},
		{P(29), enum("radioChannelProperty", RadioChannelProperty)},
		{P(30), enum("subscriptionType", SubscriptionType)},
		{P(35), address("translatedNumber", primitive.Between(1, 12))},
		{P(41), integer("originatingLineInformation", primitive.Exact(1))},
	}},
	CallForwarding: {callCommon, camel, {
		{P(20), address("callingPartyNumber", primitive.Between(1, 12))},
		{P(21), address("calledPartyNumber", primitive.Between(1, 12))},
		{P(22), address("originalCalledNumber", primitive.Between(1, 12))},
		{P(23), address("redirectingNumber", primitive.Between(1, 12))},
		{P(24), tbcd("calledSubscriberIMSI", primitive.Between(3, 8))},
		{P(25), address("mobileStationRoamingNumber", primitive.Between(1, 9))},
		{P(26), enum("teleServiceCode", TeleServiceCode)},
		{P(27), enum("bearerServiceCode", BearerServiceCode)},
		{P(28), enum("typeOfCallingSubscriber", TypeOfCallingSubscriber)},
		{P(29), integer("redirectionCounter", primitive.Exact(1))},
	}},
	MSTerminating: {callCommon, camel, {
		{P(20), address("callingPartyNumber", primitive.Between(1, 12))},
		{P(21), address("calledPartyNumber", primitive.Between(1, 12))},
		{P(22), tbcd("calledSubscriberIMSI", primitive.Between(3, 8))},
		{P(23), tbcd("calledSubscriberIMEI", primitive.Exact(8))},
		{P(24), geo("firstCalledLocationInformation")},
		{P(25), geo("lastCalledLocationInformation")},
		{P(26), enum("teleServiceCode", TeleServiceCode)},
		{P(27), enum("bearerServiceCode", BearerServiceCode)},
		{P(28), address("mobileStationRoamingNumber", primitive.Between(1, 9))},
		{P(29), enum("radioChannelProperty", RadioChannelProperty)},
		{P(30), enum("subscriptionType", SubscriptionType)},
		{P(41), integer("originatingLineInformation", primitive.Exact(1))},
	}},
	MSOriginatingSMSinMSC: {smsCommon, {
		{P(20), address("callingPartyNumber", primitive.Between(1, 12))},
		{P(21), address("destinationAddress", primitive.Between(1, 12))},
		{P(22), tbcd("callingSubscriberIMSI", primitive.Between(3, 8))},
		{P(23), tbcd("callingSubscriberIMEI", primitive.Exact(8))},
		{P(24), geo("originatingLocation")},
		{P(25), address("serviceCentreAddress", primitive.Between(1, 12))},
		{P(26), enum("teleServiceCode", TeleServiceCode)},
		{P(27), enum("sMSResult", SMSResult)},
		{P(28), enum("messageTypeIndicator", MessageTypeIndicator)},
		{P(29), integer("messageReference", primitive.Exact(1))},
	}},
	MSTerminatingSMSinMSC: {smsCommon, {
		{P(20), address("originatingAddress", primitive.Between(1, 12))},
		{P(21), address("calledPartyNumber", primitive.Between(1, 12))},
		{P(22), tbcd("calledSubscriberIMSI", primitive.Between(3, 8))},
		{P(23), tbcd("calledSubscriberIMEI", primitive.Exact(8))},
		{P(24), geo("terminatingLocation")},
		{P(25), address("serviceCentreAddress", primitive.Between(1, 12))},
		{P(26), enum("teleServiceCode", TeleServiceCode)},
		{P(27), enum("sMSResult", SMSResult)},
		{P(28), enum("messageTypeIndicator", MessageTypeIndicator)},
	}},
}

// NewEricsson builds a registry with the Ericsson MSC record layouts.
func NewEricsson() (*Registry, error) {
	b := NewBuilder()
	for _, rt := range recordTypes {
		if err := b.Declare(rt); err != nil {
			return nil, err
		}
	}
	for tag, groups := range layouts {
		for _, group := range groups {
			for _, e := range group {
				if err := b.Register(tag, e.path, e.rule); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.Build(), nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide Ericsson registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := NewEricsson()
		if err != nil {
			panic(err)
		}
		defaultReg = reg
	})
	return defaultReg
}
